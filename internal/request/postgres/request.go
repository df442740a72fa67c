package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	"github.com/frahmantamala/academic-requests/internal/request"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) request.Repository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) WithinTx(ctx context.Context, fn func(tx request.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&RequestRepository{db: tx})
	})
}

func (r *RequestRepository) Create(ctx context.Context, req *requestDatamodel.Request) error {
	if err := r.db.WithContext(ctx).Omit("Student", "AssignedLecturer").Create(req).Error; err != nil {
		return internal.NewInternalError("failed to create request", err)
	}
	return nil
}

func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*requestDatamodel.Request, error) {
	var req requestDatamodel.Request
	if err := r.withPeople(ctx).First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrRequestNotFound
		}
		return nil, internal.NewInternalError("failed to load request", err)
	}
	return &req, nil
}

func (r *RequestRepository) ListByStudent(ctx context.Context, studentID int64) ([]*requestDatamodel.Request, error) {
	var rows []*requestDatamodel.Request
	err := r.withPeople(ctx).
		Where("requests.student_id = ?", studentID).
		Order("requests.submitted_at DESC, requests.id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list requests", err)
	}
	return rows, nil
}

func (r *RequestRepository) List(ctx context.Context, filter request.ManagementFilter) ([]*requestDatamodel.Request, error) {
	q := r.withPeople(ctx)
	switch {
	case filter.DepartmentID != nil:
		q = q.Joins("JOIN users AS owner ON owner.id = requests.student_id").
			Where("owner.department_id = ?", *filter.DepartmentID)
	case filter.LecturerID != nil:
		q = q.Where("requests.assigned_lecturer_id = ?", *filter.LecturerID)
	case filter.StudentID != nil:
		q = q.Where("requests.student_id = ?", *filter.StudentID)
	}

	var rows []*requestDatamodel.Request
	if err := q.Order("requests.submitted_at DESC, requests.id DESC").Find(&rows).Error; err != nil {
		return nil, internal.NewInternalError("failed to list requests", err)
	}
	return rows, nil
}

func (r *RequestRepository) UpdateStatus(ctx context.Context, id int64, status request.Status, feedback *string) error {
	res := r.db.WithContext(ctx).Model(&requestDatamodel.Request{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":   string(status),
			"feedback": feedback,
		})
	if res.Error != nil {
		return internal.NewInternalError("failed to update request status", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrRequestNotFound
	}
	return nil
}

func (r *RequestRepository) CreateComment(ctx context.Context, c *requestDatamodel.RequestComment) error {
	if err := r.db.WithContext(ctx).Omit("Author").Create(c).Error; err != nil {
		return internal.NewInternalError("failed to create comment", err)
	}
	return nil
}

func (r *RequestRepository) ListComments(ctx context.Context, requestID int64) ([]*requestDatamodel.RequestComment, error) {
	var rows []*requestDatamodel.RequestComment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("request_id = ?", requestID).
		Order("timestamp ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list comments", err)
	}
	return rows, nil
}

func (r *RequestRepository) MarkCommentsRead(ctx context.Context, requestID, readerID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&requestDatamodel.RequestComment{}).
		Where("request_id = ? AND author_id <> ? AND is_read = ?", requestID, readerID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, internal.NewInternalError("failed to mark comments read", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *RequestRepository) CreateNotifications(ctx context.Context, n []*notificationDatamodel.Notification) error {
	if len(n) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&n).Error; err != nil {
		return internal.NewInternalError("failed to create notifications", err)
	}
	return nil
}

func (r *RequestRepository) withPeople(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Student").Preload("AssignedLecturer")
}
