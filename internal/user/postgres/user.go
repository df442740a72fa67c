package user

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	feedbackDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/feedback"
	notificationDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/notification"
	requestDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/request"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

// Repository is the directory store. Besides the user service it backs the
// request lifecycle's user lookups.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, u *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return internal.NewInternalError("failed to create user", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	var u userDatamodel.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewInternalError("failed to load user", err)
	}
	return &u, nil
}

func (r *Repository) Update(ctx context.Context, u *userDatamodel.User) error {
	if err := r.db.WithContext(ctx).Save(u).Error; err != nil {
		return internal.NewInternalError("failed to update user", err)
	}
	return nil
}

// Delete removes the user and cascades to owned requests, comments,
// notifications, feedback and course assignments. Requests the user was
// assigned to lose their lecturer.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&userDatamodel.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return internal.NewInternalError("failed to load user", err)
		}
		if count == 0 {
			return internal.ErrUserNotFound
		}

		ownedRequests := tx.Model(&requestDatamodel.Request{}).Select("id").Where("student_id = ?", id)
		steps := []func() error{
			func() error {
				return tx.Where("author_id = ? OR request_id IN (?)", id, ownedRequests).
					Delete(&requestDatamodel.RequestComment{}).Error
			},
			func() error {
				return tx.Model(&requestDatamodel.Request{}).
					Where("assigned_lecturer_id = ?", id).
					Update("assigned_lecturer_id", nil).Error
			},
			func() error {
				return tx.Where("student_id = ?", id).Delete(&requestDatamodel.Request{}).Error
			},
			func() error {
				return tx.Where("user_id = ?", id).Delete(&notificationDatamodel.Notification{}).Error
			},
			func() error {
				return tx.Where("user_id = ?", id).Delete(&feedbackDatamodel.Feedback{}).Error
			},
			func() error {
				return tx.Where("user_id = ?", id).Delete(&academicsDatamodel.CourseLecturer{}).Error
			},
			func() error {
				return tx.Delete(&userDatamodel.User{}, id).Error
			},
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return internal.NewInternalError("failed to delete user", err)
			}
		}
		return nil
	})
}

func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, "email = ? AND id <> ?", email, excludeID)
}

func (r *Repository) IDNumberTaken(ctx context.Context, idNumber string, excludeID int64) (bool, error) {
	return r.exists(ctx, "id_number = ? AND id <> ?", idNumber, excludeID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, internal.NewInternalError("failed to check user uniqueness", err)
	}
	return count > 0, nil
}

func (r *Repository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&academicsDatamodel.Department{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, internal.NewInternalError("failed to check department", err)
	}
	return count > 0, nil
}

func (r *Repository) ListByDepartment(ctx context.Context, departmentID int64) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	if err := r.db.WithContext(ctx).Where("department_id = ?", departmentID).Order("id").Find(&users).Error; err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (r *Repository) ListByRoleAndDepartment(ctx context.Context, role string, departmentID int64) ([]*userDatamodel.User, error) {
	var users []*userDatamodel.User
	err := r.db.WithContext(ctx).
		Where("role = ? AND department_id = ?", role, departmentID).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return users, nil
}

func (r *Repository) CourseIDsByUsers(ctx context.Context, userIDs []int64) (map[int64][]int64, error) {
	out := make(map[int64][]int64, len(userIDs))
	if len(userIDs) == 0 {
		return out, nil
	}

	var links []academicsDatamodel.CourseLecturer
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Order("course_id").
		Find(&links).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to load course assignments", err)
	}
	for _, l := range links {
		out[l.UserID] = append(out[l.UserID], l.CourseID)
	}
	return out, nil
}

func (r *Repository) CoursesInDepartment(ctx context.Context, courseIDs []int64, departmentID *int64) ([]int64, error) {
	if len(courseIDs) == 0 || departmentID == nil {
		return nil, nil
	}

	var ids []int64
	err := r.db.WithContext(ctx).Model(&academicsDatamodel.Course{}).
		Where("id IN ? AND department_id = ?", courseIDs, *departmentID).
		Order("id").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, internal.NewInternalError("failed to filter courses", err)
	}
	return ids, nil
}

func (r *Repository) ReplaceCourses(ctx context.Context, lecturerID int64, courseIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", lecturerID).Delete(&academicsDatamodel.CourseLecturer{}).Error; err != nil {
			return internal.NewInternalError("failed to clear course assignments", err)
		}
		if len(courseIDs) == 0 {
			return nil
		}
		links := make([]academicsDatamodel.CourseLecturer, 0, len(courseIDs))
		for _, id := range courseIDs {
			links = append(links, academicsDatamodel.CourseLecturer{CourseID: id, UserID: lecturerID})
		}
		if err := tx.Create(&links).Error; err != nil {
			return internal.NewInternalError("failed to assign courses", err)
		}
		return nil
	})
}
