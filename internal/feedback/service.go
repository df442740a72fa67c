package feedback

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

type RepositoryAPI interface {
	Create(ctx context.Context, f *feedbackDatamodel.Feedback) error
	GetByID(ctx context.Context, id int64) (*feedbackDatamodel.Feedback, error)
	List(ctx context.Context) ([]*feedbackDatamodel.Feedback, error)
	Delete(ctx context.Context, id int64) error
}

type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
}

type Service struct {
	repo      RepositoryAPI
	users     UserDirectory
	policy    *policy.Policy
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, users UserDirectory, pol *policy.Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		policy:    pol,
		publisher: publisher,
		logger:    logger,
	}
}

// Submit stores feedback on behalf of dto.UserID. The category defaults to
// general.
func (s *Service) Submit(ctx context.Context, actor policy.Actor, dto SubmitFeedbackDTO) (*Feedback, error) {
	dto.Category = strings.TrimSpace(dto.Category)
	if dto.Category == "" {
		dto.Category = string(CategoryGeneral)
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.policy.Authorize(actor, policy.FeedbackSubmit, policy.Resource{OwnerID: *dto.UserID}); err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, *dto.UserID)
	if err != nil {
		return nil, err
	}

	row := &feedbackDatamodel.Feedback{
		UserID:      u.ID,
		Rating:      int(*dto.Rating),
		Comment:     dto.Comment,
		Category:    dto.Category,
		IsAnonymous: dto.IsAnonymous,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		s.logger.Error("failed to store feedback", "user_id", u.ID, "error", err)
		return nil, err
	}
	row.User = u

	s.logger.Info("feedback submitted", "feedback_id", row.ID, "rating", row.Rating, "category", row.Category)
	s.publish(ctx, events.NewFeedbackSubmittedEvent(row.ID, row.Rating, row.Category))

	return FromDataModel(row), nil
}

func (s *Service) List(ctx context.Context) ([]*Feedback, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Feedback, 0, len(rows))
	for _, f := range rows {
		out = append(out, FromDataModel(f))
	}
	return out, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Feedback, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, internal.ErrFeedbackNotFound) {
			s.logger.Error("failed to delete feedback", "feedback_id", id, "error", err)
		}
		return err
	}
	s.logger.Info("feedback deleted", "feedback_id", id)
	return nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn("failed to publish event", "event_type", e.EventType(), "error", err)
	}
}
