package request

import (
	"strings"
	"time"

	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type LecturerSummary struct {
	ID       int64  `json:"id"`
	FullName string `json:"full_name"`
}

// Request is the outward representation. Status carries the localized label;
// StatusKey carries the internal value.
type Request struct {
	ID                 int64            `json:"id"`
	Student            int64            `json:"student"`
	StudentName        string           `json:"student_name"`
	RequestType        string           `json:"request_type"`
	RequestTypeDisplay string           `json:"request_type_display"`
	Subject            string           `json:"subject"`
	Description        string           `json:"description"`
	AttachedFile       *string          `json:"attached_file"`
	SubmittedAt        time.Time        `json:"submitted_at"`
	Status             string           `json:"status"`
	StatusDisplay      string           `json:"status_display"`
	StatusKey          string           `json:"status_key"`
	AssignedLecturer   *LecturerSummary `json:"assigned_lecturer"`
	Feedback           *string          `json:"feedback"`
}

type Comment struct {
	ID         int64     `json:"id"`
	AuthorID   int64     `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"is_read"`
}

func FromDataModel(r *requestDatamodel.Request) *Request {
	status := Status(r.Status)
	out := &Request{
		ID:                 r.ID,
		Student:            r.StudentID,
		RequestType:        r.RequestType,
		RequestTypeDisplay: Type(r.RequestType).Display(),
		Subject:            r.Subject,
		Description:        r.Description,
		AttachedFile:       r.AttachedFile,
		SubmittedAt:        r.SubmittedAt,
		Status:             status.Display(),
		StatusDisplay:      status.Display(),
		StatusKey:          r.Status,
		Feedback:           r.Feedback,
	}
	if r.Student != nil {
		out.StudentName = fullName(r.Student)
	}
	if r.AssignedLecturer != nil {
		out.AssignedLecturer = &LecturerSummary{ID: r.AssignedLecturer.ID, FullName: fullName(r.AssignedLecturer)}
	}
	return out
}

func CommentFromDataModel(c *requestDatamodel.RequestComment) *Comment {
	out := &Comment{
		ID:        c.ID,
		AuthorID:  c.AuthorID,
		Content:   c.Content,
		Timestamp: c.Timestamp,
		IsRead:    c.IsRead,
	}
	if c.Author != nil {
		out.AuthorName = fullName(c.Author)
	}
	return out
}

func fullName(u *userDatamodel.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
