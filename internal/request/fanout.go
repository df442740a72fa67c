package request

import (
	"fmt"

	"github.com/frahmantamala/academic-requests/internal/policy"
)

// Participants are the people attached to a request when a comment lands.
type Participants struct {
	StudentID          int64
	AssignedLecturerID *int64
	DepartmentAdmins   []int64
}

// Recipients returns who is notified about a comment by author. The author is
// never included and each recipient appears once, in first-seen order.
func Recipients(author policy.Actor, p Participants) []int64 {
	var candidates []int64

	switch {
	case author.ID == p.StudentID:
		if p.AssignedLecturerID != nil {
			candidates = append(candidates, *p.AssignedLecturerID)
		}
		candidates = append(candidates, p.DepartmentAdmins...)
	case p.AssignedLecturerID != nil && author.ID == *p.AssignedLecturerID:
		candidates = append(candidates, p.StudentID)
	case author.Role == policy.RoleAdmin:
		candidates = append(candidates, p.StudentID)
		if p.AssignedLecturerID != nil {
			candidates = append(candidates, *p.AssignedLecturerID)
		}
	}

	seen := map[int64]struct{}{author.ID: {}}
	out := make([]int64, 0, len(candidates))
	for _, id := range candidates {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func statusChangedMessage(t Type, s Status) string {
	return fmt.Sprintf("הבקשה שלך \"%s\" עודכנה לסטטוס: %s", t.Display(), s.Display())
}

func commentAddedMessage(rawType, firstName, lastName string) string {
	return fmt.Sprintf("התקבלה תגובה חדשה לבקשה \"%s\" מאת %s %s", rawType, firstName, lastName)
}
