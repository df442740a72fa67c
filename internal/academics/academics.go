package academics

import (
	"strings"

	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Lecturer struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	FullNameDisplay string `json:"full_name_display"`
	Email           string `json:"email"`
}

type Course struct {
	ID             int64      `json:"id"`
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Department     int64      `json:"department"`
	DepartmentName string     `json:"department_name"`
	Lecturers      []Lecturer `json:"lecturers"`
}

func DepartmentFromDataModel(d *academicsDatamodel.Department) Department {
	return Department{ID: d.ID, Name: d.Name}
}

func CourseFromDataModel(c *academicsDatamodel.Course) Course {
	out := Course{
		ID:         c.ID,
		Code:       c.Code,
		Name:       c.Name,
		Department: c.DepartmentID,
		Lecturers:  make([]Lecturer, 0, len(c.Lecturers)),
	}
	if c.Department != nil {
		out.DepartmentName = c.Department.Name
	}
	for i := range c.Lecturers {
		out.Lecturers = append(out.Lecturers, lecturerFromDataModel(&c.Lecturers[i]))
	}
	return out
}

func lecturerFromDataModel(u *userDatamodel.User) Lecturer {
	return Lecturer{
		ID:              u.ID,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		FullNameDisplay: strings.TrimSpace(u.FirstName + " " + u.LastName),
		Email:           u.Email,
	}
}
