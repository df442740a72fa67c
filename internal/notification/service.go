package notification

import (
	"context"
	"log/slog"

	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
)

type RepositoryAPI interface {
	ListByUser(ctx context.Context, userID int64, unreadOnly bool) ([]*notificationDatamodel.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// List returns the user's notifications, newest first.
func (s *Service) List(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error) {
	rows, err := s.repo.ListByUser(ctx, userID, unreadOnly)
	if err != nil {
		s.logger.Error("failed to list notifications", "user_id", userID, "error", err)
		return nil, err
	}

	out := make([]Notification, 0, len(rows))
	for _, n := range rows {
		out = append(out, FromDataModel(n))
	}
	return out, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		s.logger.Error("failed to mark notifications read", "user_id", userID, "error", err)
		return 0, err
	}
	s.logger.Info("notifications marked read", "user_id", userID, "count", n)
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
