package user

import (
	"strings"
	"time"

	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

// User is the outward profile of a directory entry.
type User struct {
	ID              int64     `json:"id"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	FullNameDisplay string    `json:"full_name_display"`
	Email           string    `json:"email"`
	IDNumber        *string   `json:"id_number"`
	Role            string    `json:"role"`
	Department      *int64    `json:"department"`
	PhoneNumber     string    `json:"phone_number"`
	IsApproved      bool      `json:"is_approved"`
	Courses         []int64   `json:"courses"`
	DateJoined      time.Time `json:"date_joined"`
}

func FromDataModel(u *userDatamodel.User, courses []int64) *User {
	if courses == nil {
		courses = []int64{}
	}
	return &User{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullNameDisplay: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Email:           u.Email,
		IDNumber:        u.IDNumber,
		Role:            u.Role,
		Department:      u.DepartmentID,
		PhoneNumber:     u.PhoneNumber,
		IsApproved:      u.IsApproved,
		Courses:         courses,
		DateJoined:      u.DateJoined,
	}
}

// defaultApproval: lecturers wait for an admin, everyone else is approved.
func defaultApproval(role policy.Role) bool {
	return role != policy.RoleLecturer
}

// splitFullName splits on the first space; a single word becomes the first name.
func splitFullName(full string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(full), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
