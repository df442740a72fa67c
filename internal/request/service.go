package request

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

type Repository interface {
	// WithinTx runs fn against a repository bound to one transaction.
	WithinTx(ctx context.Context, fn func(tx Repository) error) error

	Create(ctx context.Context, r *requestDatamodel.Request) error
	GetByID(ctx context.Context, id int64) (*requestDatamodel.Request, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*requestDatamodel.Request, error)
	List(ctx context.Context, filter ManagementFilter) ([]*requestDatamodel.Request, error)
	UpdateStatus(ctx context.Context, id int64, status Status, feedback *string) error

	CreateComment(ctx context.Context, c *requestDatamodel.RequestComment) error
	ListComments(ctx context.Context, requestID int64) ([]*requestDatamodel.RequestComment, error)
	MarkCommentsRead(ctx context.Context, requestID, readerID int64) (int64, error)

	CreateNotifications(ctx context.Context, n []*notificationDatamodel.Notification) error
}

// UserDirectory is the slice of the user store the lifecycle engine reads.
type UserDirectory interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	ListByRoleAndDepartment(ctx context.Context, role string, departmentID int64) ([]*userDatamodel.User, error)
}

type AttachmentStore interface {
	Save(ctx context.Context, filename string, content io.Reader) (string, error)
	Remove(ctx context.Context, path string) error
}

type Service struct {
	repo      Repository
	users     UserDirectory
	files     AttachmentStore
	policy    *policy.Policy
	publisher events.Publisher
	logger    *slog.Logger
}

func NewService(repo Repository, users UserDirectory, files AttachmentStore, pol *policy.Policy, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		users:     users,
		files:     files,
		policy:    pol,
		publisher: publisher,
		logger:    logger,
	}
}

// Create files a new pending request. The student defaults to the actor.
// An assigned lecturer that is unknown or not a lecturer is dropped.
func (s *Service) Create(ctx context.Context, actor policy.Actor, dto CreateRequestDTO) (*Request, error) {
	studentID := actor.ID
	if dto.StudentID != nil {
		studentID = *dto.StudentID
	}
	if err := s.policy.Authorize(actor, policy.RequestCreate, policy.Resource{OwnerID: studentID}); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	reqType, err := ParseType(dto.RequestType)
	if err != nil {
		return nil, err
	}

	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrStudentNotFound
		}
		return nil, err
	}

	row := &requestDatamodel.Request{
		StudentID:          studentID,
		RequestType:        string(reqType),
		Subject:            strings.TrimSpace(dto.Subject),
		Description:        dto.Description,
		Status:             string(StatusPending),
		AssignedLecturerID: s.resolveLecturer(ctx, dto.AssignedLecturerID),
	}

	if dto.File != nil && s.files != nil {
		path, err := s.files.Save(ctx, dto.File.Filename, dto.File.Content)
		if err != nil {
			return nil, err
		}
		row.AttachedFile = &path
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if row.AttachedFile != nil {
			if rmErr := s.files.Remove(ctx, *row.AttachedFile); rmErr != nil {
				s.logger.Warn("failed to remove orphaned attachment", "path", *row.AttachedFile, "error", rmErr)
			}
		}
		return nil, err
	}

	s.logger.Info("request created",
		"request_id", row.ID,
		"student_id", row.StudentID,
		"type", row.RequestType,
		"has_attachment", row.AttachedFile != nil)
	s.publish(ctx, events.NewRequestSubmittedEvent(row.ID, row.StudentID, row.RequestType))

	return s.GetByID(ctx, row.ID)
}

func (s *Service) resolveLecturer(ctx context.Context, id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	u, err := s.users.GetByID(ctx, *id)
	if err != nil || policy.Role(u.Role) != policy.RoleLecturer {
		s.logger.Warn("ignoring invalid assigned lecturer", "lecturer_id", *id)
		return nil
	}
	return &u.ID
}

func (s *Service) ListByStudent(ctx context.Context, studentID int64) ([]*Request, error) {
	if _, err := s.users.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrStudentNotFound
		}
		return nil, err
	}

	rows, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *Service) ListForManagement(ctx context.Context, filter ManagementFilter) ([]*Request, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(rows), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Request, error) {
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(row), nil
}

// UpdateStatus sets the status and feedback and notifies the student in the
// same transaction. Every successful call notifies, even when the status is
// unchanged.
func (s *Service) UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO) (*Request, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status, err := ParseDisplayStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	notice := &notificationDatamodel.Notification{
		UserID:  current.StudentID,
		Message: statusChangedMessage(Type(current.RequestType), status),
	}
	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := tx.UpdateStatus(ctx, id, status, dto.Feedback); err != nil {
			return err
		}
		return tx.CreateNotifications(ctx, []*notificationDatamodel.Notification{notice})
	})
	if err != nil {
		s.logger.Error("failed to update request status", "request_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("request status updated", "request_id", id, "from", current.Status, "to", status)
	s.publish(ctx, events.NewRequestStatusChangedEvent(id, current.StudentID, string(status)))

	return s.GetByID(ctx, id)
}

// AddComment stores a comment and notifies the other participants in the
// same transaction.
func (s *Service) AddComment(ctx context.Context, requestID, authorID int64, dto AddCommentDTO) (*Comment, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		if errors.Is(err, internal.ErrUserNotFound) {
			return nil, internal.ErrAuthorNotFound
		}
		return nil, err
	}

	actor := policy.Actor{ID: author.ID, Role: policy.Role(author.Role), DepartmentID: author.DepartmentID}
	resource := policy.Resource{OwnerID: req.StudentID}
	if req.AssignedLecturerID != nil {
		resource.AssigneeID = *req.AssignedLecturerID
	}
	if err := s.policy.Authorize(actor, policy.RequestComment, resource); err != nil {
		return nil, err
	}

	participants := Participants{StudentID: req.StudentID, AssignedLecturerID: req.AssignedLecturerID}
	if author.ID == req.StudentID {
		admins, err := s.departmentAdmins(ctx, author)
		if err != nil {
			return nil, err
		}
		participants.DepartmentAdmins = admins
	}
	recipients := Recipients(actor, participants)

	comment := &requestDatamodel.RequestComment{
		RequestID: req.ID,
		AuthorID:  author.ID,
		Content:   dto.Content,
	}
	message := commentAddedMessage(req.RequestType, author.FirstName, author.LastName)

	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := tx.CreateComment(ctx, comment); err != nil {
			return err
		}
		if len(recipients) == 0 {
			return nil
		}
		notices := make([]*notificationDatamodel.Notification, 0, len(recipients))
		for _, uid := range recipients {
			notices = append(notices, &notificationDatamodel.Notification{UserID: uid, Message: message})
		}
		return tx.CreateNotifications(ctx, notices)
	})
	if err != nil {
		s.logger.Error("failed to add comment", "request_id", requestID, "author_id", authorID, "error", err)
		return nil, err
	}

	s.logger.Info("comment added", "request_id", req.ID, "author_id", author.ID, "recipients", len(recipients))
	s.publish(ctx, events.NewRequestCommentAddedEvent(req.ID, author.ID, recipients))

	comment.Author = author
	return CommentFromDataModel(comment), nil
}

// departmentAdmins lists the admins of the student's department; a student
// without a department has none.
func (s *Service) departmentAdmins(ctx context.Context, student *userDatamodel.User) ([]int64, error) {
	if student.DepartmentID == nil {
		return nil, nil
	}
	admins, err := s.users.ListByRoleAndDepartment(ctx, string(policy.RoleAdmin), *student.DepartmentID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.ID)
	}
	return ids, nil
}

func (s *Service) ListComments(ctx context.Context, requestID int64) ([]*Comment, error) {
	if _, err := s.repo.GetByID(ctx, requestID); err != nil {
		return nil, err
	}

	rows, err := s.repo.ListComments(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]*Comment, 0, len(rows))
	for _, c := range rows {
		out = append(out, CommentFromDataModel(c))
	}
	return out, nil
}

// MarkCommentsRead marks every comment on the request that the reader did
// not write as read.
func (s *Service) MarkCommentsRead(ctx context.Context, requestID, readerID int64) (int64, error) {
	if _, err := s.repo.GetByID(ctx, requestID); err != nil {
		return 0, err
	}
	n, err := s.repo.MarkCommentsRead(ctx, requestID, readerID)
	if err != nil {
		return 0, err
	}
	s.logger.Debug("comments marked read", "request_id", requestID, "reader_id", readerID, "count", n)
	return n, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func toResponses(rows []*requestDatamodel.Request) []*Request {
	out := make([]*Request, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromDataModel(r))
	}
	return out
}
