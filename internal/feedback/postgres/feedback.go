package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	"github.com/frahmantamala/academic-requests/internal/feedback"
)

type FeedbackRepository struct {
	db *gorm.DB
}

func NewFeedbackRepository(db *gorm.DB) feedback.RepositoryAPI {
	return &FeedbackRepository{db: db}
}

func (r *FeedbackRepository) Create(ctx context.Context, f *feedbackDatamodel.Feedback) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(f).Error; err != nil {
		return internal.NewInternalError("failed to create feedback", err)
	}
	return nil
}

func (r *FeedbackRepository) GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error) {
	var f feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).Preload("User").First(&f, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrFeedbackNotFound
		}
		return nil, internal.NewInternalError("failed to get feedback", err)
	}
	return &f, nil
}

func (r *FeedbackRepository) List(ctx context.Context) ([]*feedbackDatamodel.Feedback, error) {
	var rows []*feedbackDatamodel.Feedback
	err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list feedback", err)
	}
	return rows, nil
}

func (r *FeedbackRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&feedbackDatamodel.Feedback{}, id)
	if res.Error != nil {
		return internal.NewInternalError("failed to delete feedback", res.Error)
	}
	if res.RowsAffected == 0 {
		return internal.ErrFeedbackNotFound
	}
	return nil
}
