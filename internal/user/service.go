package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/auth"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/policy"
)

type Repository interface {
	Create(ctx context.Context, u *userDatamodel.User) error
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Update(ctx context.Context, u *userDatamodel.User) error
	Delete(ctx context.Context, id int64) error
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	IDNumberTaken(ctx context.Context, idNumber string, excludeID int64) (bool, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*userDatamodel.User, error)
	CourseIDsByUsers(ctx context.Context, userIDs []int64) (map[int64][]int64, error)
	CoursesInDepartment(ctx context.Context, courseIDs []int64, departmentID *int64) ([]int64, error)
	ReplaceCourses(ctx context.Context, lecturerID int64, courseIDs []int64) error
}

type Service struct {
	repo       Repository
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(dto.Email)
	if err := s.ensureUnique(ctx, email, dto.IDNumber, 0); err != nil {
		return nil, err
	}
	if err := s.ensureDepartment(ctx, dto.Department); err != nil {
		return nil, err
	}

	role := policy.Role(dto.Role)
	approved := defaultApproval(role)
	if dto.IsApproved != nil {
		approved = *dto.IsApproved
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	row := &userDatamodel.User{
		Username:     email,
		Email:        email,
		FirstName:    strings.TrimSpace(dto.FirstName),
		LastName:     strings.TrimSpace(dto.LastName),
		Role:         string(role),
		DepartmentID: dto.Department,
		PhoneNumber:  dto.PhoneNumber,
		IsApproved:   approved,
		IDNumber:     emptyToNil(dto.IDNumber),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", row.ID, "role", row.Role, "approved", row.IsApproved)
	s.publish(ctx, events.NewUserRegisteredEvent(row.ID, row.Email, row.FullName(), row.Role))

	return FromDataModel(row, nil), nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	courses, err := s.repo.CourseIDsByUsers(ctx, []int64{u.ID})
	if err != nil {
		return nil, err
	}
	return FromDataModel(u, courses[u.ID]), nil
}

// UpdateProfile applies a partial update. Role and approval changes are
// reserved for admins.
func (s *Service) UpdateProfile(ctx context.Context, actor policy.Actor, userID int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if (dto.Role != nil && *dto.Role != u.Role) || (dto.IsApproved != nil && *dto.IsApproved != u.IsApproved) {
		if actor.Role != policy.RoleAdmin {
			return nil, internal.ErrPermissionDenied
		}
	}

	var email string
	if dto.Email != nil {
		email = strings.TrimSpace(*dto.Email)
	}
	if err := s.ensureUnique(ctx, email, dto.IDNumber, u.ID); err != nil {
		return nil, err
	}
	if dto.Department.Set {
		if err := s.ensureDepartment(ctx, dto.Department.Value); err != nil {
			return nil, err
		}
		u.DepartmentID = dto.Department.Value
	}

	if dto.FullName != nil {
		u.FirstName, u.LastName = splitFullName(*dto.FullName)
	}
	if dto.FirstName != nil {
		u.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		u.LastName = *dto.LastName
	}
	if email != "" {
		u.Email = email
		u.Username = email
	}
	if dto.IDNumber != nil {
		u.IDNumber = emptyToNil(dto.IDNumber)
	}
	if dto.Role != nil {
		u.Role = *dto.Role
	}
	if dto.PhoneNumber != nil {
		u.PhoneNumber = *dto.PhoneNumber
	}
	if dto.IsApproved != nil {
		u.IsApproved = *dto.IsApproved
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.Info("profile updated", "user_id", u.ID, "by", actor.ID)
	return s.GetProfile(ctx, u.ID)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID int64) ([]*User, error) {
	rows, err := s.repo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	courses, err := s.repo.CourseIDsByUsers(ctx, ids)
	if err != nil {
		return nil, err
	}

	users := make([]*User, 0, len(rows))
	for _, r := range rows {
		users = append(users, FromDataModel(r, courses[r.ID]))
	}
	return users, nil
}

// Delete removes the user together with everything they own.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	if err := s.repo.Delete(ctx, userID); err != nil {
		return err
	}
	s.logger.Info("user deleted", "user_id", userID)
	return nil
}

// AssignCourses replaces the lecturer's course set. Courses outside the
// lecturer's department are dropped silently.
func (s *Service) AssignCourses(ctx context.Context, lecturerID int64, dto AssignCoursesDTO) ([]int64, error) {
	u, err := s.repo.GetByID(ctx, lecturerID)
	if err != nil {
		if isNotFound(err) {
			return nil, internal.ErrLecturerNotFound
		}
		return nil, err
	}
	if policy.Role(u.Role) != policy.RoleLecturer {
		return nil, internal.ErrLecturerNotFound
	}

	allowed, err := s.repo.CoursesInDepartment(ctx, dto.CourseIDs, u.DepartmentID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceCourses(ctx, u.ID, allowed); err != nil {
		return nil, err
	}

	s.logger.Info("lecturer courses assigned", "lecturer_id", u.ID, "requested", len(dto.CourseIDs), "assigned", len(allowed))
	if allowed == nil {
		allowed = []int64{}
	}
	return allowed, nil
}

func (s *Service) ensureUnique(ctx context.Context, email string, idNumber *string, excludeID int64) error {
	if email != "" {
		taken, err := s.repo.EmailTaken(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return internal.ErrDuplicateEmail
		}
	}
	if idNumber != nil && strings.TrimSpace(*idNumber) != "" {
		taken, err := s.repo.IDNumberTaken(ctx, strings.TrimSpace(*idNumber), excludeID)
		if err != nil {
			return err
		}
		if taken {
			return internal.ErrDuplicateIDNumber
		}
	}
	return nil
}

func (s *Service) ensureDepartment(ctx context.Context, departmentID *int64) error {
	if departmentID == nil {
		return nil
	}
	exists, err := s.repo.DepartmentExists(ctx, *departmentID)
	if err != nil {
		return err
	}
	if !exists {
		return internal.NewValidationFieldError("department", "department does not exist", internal.ErrCodeDepartmentNotFound)
	}
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func isNotFound(err error) bool {
	appErr, ok := internal.IsAppError(err)
	return ok && appErr.Type == internal.ErrorTypeNotFound
}
