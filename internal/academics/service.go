package academics

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
)

type RepositoryAPI interface {
	ListDepartments(ctx context.Context) ([]*academicsDatamodel.Department, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	DepartmentNameTaken(ctx context.Context, name string) (bool, error)
	CreateDepartment(ctx context.Context, d *academicsDatamodel.Department) error
	DeleteDepartment(ctx context.Context, id int64) error
	ListCourses(ctx context.Context, departmentID int64) ([]*academicsDatamodel.Course, error)
	CourseCodeTaken(ctx context.Context, code string) (bool, error)
	CreateCourse(ctx context.Context, c *academicsDatamodel.Course) error
	GetCourse(ctx context.Context, id int64) (*academicsDatamodel.Course, error)
	DeleteCourse(ctx context.Context, id int64) error
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

func (s *Service) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.repo.ListDepartments(ctx)
	if err != nil {
		s.logger.Error("failed to list departments", "error", err)
		return nil, err
	}

	out := make([]Department, 0, len(rows))
	for _, d := range rows {
		out = append(out, DepartmentFromDataModel(d))
	}
	return out, nil
}

func (s *Service) CreateDepartment(ctx context.Context, dto CreateDepartmentDTO) (*Department, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(dto.Name)
	taken, err := s.repo.DepartmentNameTaken(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, internal.ErrDuplicateDepartment
	}

	row := &academicsDatamodel.Department{Name: name}
	if err := s.repo.CreateDepartment(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", row.ID, "name", row.Name)
	d := DepartmentFromDataModel(row)
	return &d, nil
}

// DeleteDepartment removes the department and its courses. Members keep
// their accounts with no department.
func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	if err := s.repo.DeleteDepartment(ctx, id); err != nil {
		return err
	}
	s.logger.Info("department deleted", "department_id", id)
	return nil
}

// ListCourses returns nothing when no department is given.
func (s *Service) ListCourses(ctx context.Context, departmentID *int64) ([]Course, error) {
	if departmentID == nil {
		return []Course{}, nil
	}

	rows, err := s.repo.ListCourses(ctx, *departmentID)
	if err != nil {
		s.logger.Error("failed to list courses", "department_id", *departmentID, "error", err)
		return nil, err
	}

	out := make([]Course, 0, len(rows))
	for _, c := range rows {
		out = append(out, CourseFromDataModel(c))
	}
	return out, nil
}

func (s *Service) CreateCourse(ctx context.Context, dto CreateCourseDTO) (*Course, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.DepartmentExists(ctx, dto.Department)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, internal.ErrDepartmentNotFound
	}

	code := strings.TrimSpace(dto.Code)
	taken, err := s.repo.CourseCodeTaken(ctx, code)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, internal.ErrDuplicateCourseCode
	}

	row := &academicsDatamodel.Course{
		DepartmentID: dto.Department,
		Code:         code,
		Name:         strings.TrimSpace(dto.Name),
	}
	if err := s.repo.CreateCourse(ctx, row); err != nil {
		return nil, err
	}

	created, err := s.repo.GetCourse(ctx, row.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("course created", "course_id", row.ID, "code", row.Code)
	c := CourseFromDataModel(created)
	return &c, nil
}

func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCourse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("course deleted", "course_id", id)
	return nil
}
