package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/academics"
	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) academics.RepositoryAPI {
	return &Repository{db: db}
}

func (r *Repository) ListDepartments(ctx context.Context) ([]*academicsDatamodel.Department, error) {
	var departments []*academicsDatamodel.Department
	if err := r.db.WithContext(ctx).Order("name").Find(&departments).Error; err != nil {
		return nil, internal.NewInternalError("failed to list departments", err)
	}
	return departments, nil
}

func (r *Repository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&academicsDatamodel.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, internal.NewInternalError("failed to check department", err)
	}
	return count > 0, nil
}

func (r *Repository) DepartmentNameTaken(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&academicsDatamodel.Department{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, internal.NewInternalError("failed to check department name", err)
	}
	return count > 0, nil
}

func (r *Repository) CreateDepartment(ctx context.Context, d *academicsDatamodel.Department) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return internal.NewInternalError("failed to create department", err)
	}
	return nil
}

// DeleteDepartment nulls the reference on member users and removes the
// department's courses with their lecturer links.
func (r *Repository) DeleteDepartment(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		courses := tx.Model(&academicsDatamodel.Course{}).Select("id").Where("department_id = ?", id)

		if err := tx.Model(&userDatamodel.User{}).Where("department_id = ?", id).Update("department_id", nil).Error; err != nil {
			return internal.NewInternalError("failed to detach department members", err)
		}
		if err := tx.Where("course_id IN (?)", courses).Delete(&academicsDatamodel.CourseLecturer{}).Error; err != nil {
			return internal.NewInternalError("failed to remove course assignments", err)
		}
		if err := tx.Where("department_id = ?", id).Delete(&academicsDatamodel.Course{}).Error; err != nil {
			return internal.NewInternalError("failed to delete department courses", err)
		}

		res := tx.Delete(&academicsDatamodel.Department{}, id)
		if res.Error != nil {
			return internal.NewInternalError("failed to delete department", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrDepartmentNotFound
		}
		return nil
	})
}

func (r *Repository) ListCourses(ctx context.Context, departmentID int64) ([]*academicsDatamodel.Course, error) {
	var courses []*academicsDatamodel.Course
	err := r.withDetails(ctx).
		Where("department_id = ?", departmentID).
		Order("code").
		Find(&courses).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list courses", err)
	}
	return courses, nil
}

func (r *Repository) CourseCodeTaken(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&academicsDatamodel.Course{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, internal.NewInternalError("failed to check course code", err)
	}
	return count > 0, nil
}

func (r *Repository) CreateCourse(ctx context.Context, c *academicsDatamodel.Course) error {
	if err := r.db.WithContext(ctx).Omit("Department", "Lecturers").Create(c).Error; err != nil {
		return internal.NewInternalError("failed to create course", err)
	}
	return nil
}

func (r *Repository) GetCourse(ctx context.Context, id int64) (*academicsDatamodel.Course, error) {
	var c academicsDatamodel.Course
	if err := r.withDetails(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrCourseNotFound
		}
		return nil, internal.NewInternalError("failed to load course", err)
	}
	return &c, nil
}

func (r *Repository) DeleteCourse(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", id).Delete(&academicsDatamodel.CourseLecturer{}).Error; err != nil {
			return internal.NewInternalError("failed to remove course assignments", err)
		}
		res := tx.Delete(&academicsDatamodel.Course{}, id)
		if res.Error != nil {
			return internal.NewInternalError("failed to delete course", res.Error)
		}
		if res.RowsAffected == 0 {
			return internal.ErrCourseNotFound
		}
		return nil
	})
}

func (r *Repository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Department").
		Preload("Lecturers", func(db *gorm.DB) *gorm.DB {
			return db.Order("users.id")
		})
}
