package feedback

import (
	"strings"
	"time"

	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
)

type Category string

const (
	CategoryWebsite Category = "website"
	CategoryProcess Category = "process"
	CategoryGeneral Category = "general"
)

var categoryDisplay = map[Category]string{
	CategoryWebsite: "האתר",
	CategoryProcess: "תהליך הבקשות",
	CategoryGeneral: "כללי",
}

func (c Category) Display() string {
	return categoryDisplay[c]
}

func (c Category) Valid() bool {
	_, ok := categoryDisplay[c]
	return ok
}

var ratingDisplay = map[int]string{
	1: "1 - גרוע מאוד",
	2: "2 - גרוע",
	3: "3 - בסדר",
	4: "4 - טוב",
	5: "5 - מעולה",
}

const (
	MinRating = 1
	MaxRating = 5
)

type Feedback struct {
	ID              int64     `json:"id"`
	User            int64     `json:"user"`
	UserName        *string   `json:"user_name"`
	Rating          int       `json:"rating"`
	RatingDisplay   string    `json:"rating_display"`
	Comment         string    `json:"comment"`
	Category        string    `json:"category"`
	CategoryDisplay string    `json:"category_display"`
	CreatedAt       time.Time `json:"created_at"`
	IsAnonymous     bool      `json:"is_anonymous"`
}

// FromDataModel expects the User association to be loaded for named feedback.
func FromDataModel(f *feedbackDatamodel.Feedback) *Feedback {
	out := &Feedback{
		ID:              f.ID,
		User:            f.UserID,
		Rating:          f.Rating,
		RatingDisplay:   ratingDisplay[f.Rating],
		Comment:         f.Comment,
		Category:        f.Category,
		CategoryDisplay: Category(f.Category).Display(),
		CreatedAt:       f.CreatedAt,
		IsAnonymous:     f.IsAnonymous,
	}
	if !f.IsAnonymous && f.User != nil {
		name := strings.TrimSpace(f.User.FirstName + " " + f.User.LastName)
		if name == "" {
			name = f.User.Username
		}
		out.UserName = &name
	}
	return out
}

type SubmitResponse struct {
	Message  string    `json:"message"`
	Feedback *Feedback `json:"feedback"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
