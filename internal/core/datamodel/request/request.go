package request

import (
	"time"

	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type Request struct {
	ID                 int64               `gorm:"primaryKey"`
	StudentID          int64               `gorm:"column:student_id;not null;index"`
	RequestType        string              `gorm:"column:request_type;size:50;not null"`
	Subject            string              `gorm:"column:subject;size:200"`
	Description        string              `gorm:"column:description;type:text"`
	AttachedFile       *string             `gorm:"column:attached_file;size:255"`
	SubmittedAt        time.Time           `gorm:"column:submitted_at;autoCreateTime;index"`
	Status             string              `gorm:"column:status;size:20;not null"`
	AssignedLecturerID *int64              `gorm:"column:assigned_lecturer_id;index"`
	Feedback           *string             `gorm:"column:feedback;type:text"`
	Student            *userDatamodel.User `gorm:"foreignKey:StudentID"`
	AssignedLecturer   *userDatamodel.User `gorm:"foreignKey:AssignedLecturerID"`
}

func (Request) TableName() string {
	return "requests"
}

type RequestComment struct {
	ID        int64               `gorm:"primaryKey"`
	RequestID int64               `gorm:"column:request_id;not null;index"`
	AuthorID  int64               `gorm:"column:author_id;not null"`
	Content   string              `gorm:"column:content;type:text;not null"`
	Timestamp time.Time           `gorm:"column:timestamp;autoCreateTime"`
	IsRead    bool                `gorm:"column:is_read;not null"`
	Author    *userDatamodel.User `gorm:"foreignKey:AuthorID"`
}

func (RequestComment) TableName() string {
	return "request_comments"
}
