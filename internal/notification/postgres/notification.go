package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	"github.com/frahmantamala/academic-requests/internal/notification"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) notification.RepositoryAPI {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var rows []*notificationDatamodel.Notification
	if err := q.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, internal.NewInternalError("failed to list notifications", err)
	}
	return rows, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true)
	if res.Error != nil {
		return 0, internal.NewInternalError("failed to mark notifications read", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&notificationDatamodel.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&n).Error
	if err != nil {
		return 0, internal.NewInternalError("failed to count notifications", err)
	}
	return n, nil
}
