package request

import (
	"io"
	"strings"

	"github.com/frahmantamala/academic-requests/internal/core/common/validation"
)

// Attachment is an uploaded file on its way to storage.
type Attachment struct {
	Filename string
	Content  io.Reader
}

type CreateRequestDTO struct {
	StudentID          *int64
	RequestType        string
	Subject            string
	Description        string
	AssignedLecturerID *int64
	File               *Attachment
}

func (d CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("subject", strings.TrimSpace(d.Subject)).MaxLength(200)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status   string  `json:"status"`
	Feedback *string `json:"feedback"`
}

type AddCommentDTO struct {
	Content string `json:"content"`
}

func (d AddCommentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("content", d.Content).Required()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ManagementFilter narrows the management listing; the first set field wins
// in the order department, lecturer, student.
type ManagementFilter struct {
	DepartmentID *int64
	LecturerID   *int64
	StudentID    *int64
}

type CreateResponse struct {
	ID      int64    `json:"id"`
	Message string   `json:"message"`
	Status  string   `json:"status"`
	Request *Request `json:"request"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}
