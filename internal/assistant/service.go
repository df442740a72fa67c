package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
)

type RequestLister interface {
	ListByStudent(ctx context.Context, studentID int64) ([]*requestDatamodel.Request, error)
}

type Service struct {
	requests  RequestLister
	completer Completer
	logger    *slog.Logger
}

func NewService(requests RequestLister, completer Completer, logger *slog.Logger) *Service {
	return &Service{
		requests:  requests,
		completer: completer,
		logger:    logger,
	}
}

// Chat answers a single message. No conversation state is kept between calls.
func (s *Service) Chat(ctx context.Context, dto ChatDTO) (string, error) {
	msg := strings.ToLower(strings.TrimSpace(dto.Message))
	if msg == "" {
		return "", ErrEmptyMessage
	}

	in := classify(msg)
	s.logger.Debug("assistant message classified", "intent", int(in))

	switch in {
	case intentStatus:
		return s.statusReport(ctx, dto.StudentID)
	case intentPhrasing:
		return phrasingReply(msg), nil
	case intentNone:
		reply, err := s.completer.Complete(ctx, systemPrompt, msg)
		if err != nil {
			return "", internal.NewExternalError("assistant failed", internal.ErrCodeAssistantFailed, err)
		}
		return reply, nil
	}
	return cannedReplies[in], nil
}

func (s *Service) statusReport(ctx context.Context, studentID *int64) (string, error) {
	if studentID == nil || *studentID == 0 {
		return "", ErrMissingStudent
	}

	rows, err := s.requests.ListByStudent(ctx, *studentID)
	if err != nil {
		return "", err
	}
	if len(rows) == 0 {
		return noRequestsReply, nil
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, statusHeader)
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("• %s (%s) – סטטוס: %s", r.Subject, r.RequestType, r.Status))
	}
	return strings.Join(lines, "\n"), nil
}
