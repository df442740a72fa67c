package academics_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/academics"
	academicsDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/academics"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
)

type MockRepository struct {
	departments map[int64]*academicsDatamodel.Department
	courses     map[int64]*academicsDatamodel.Course
	nextID      int64
	shouldFail  bool
	failError   error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{
		departments: make(map[int64]*academicsDatamodel.Department),
		courses:     make(map[int64]*academicsDatamodel.Course),
		nextID:      1,
	}
}

func (m *MockRepository) SetShouldFail(shouldFail bool, err error) {
	m.shouldFail = shouldFail
	m.failError = err
}

func (m *MockRepository) ListDepartments(_ context.Context) ([]*academicsDatamodel.Department, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	out := make([]*academicsDatamodel.Department, 0, len(m.departments))
	for _, d := range m.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MockRepository) DepartmentExists(_ context.Context, id int64) (bool, error) {
	_, ok := m.departments[id]
	return ok, nil
}

func (m *MockRepository) DepartmentNameTaken(_ context.Context, name string) (bool, error) {
	for _, d := range m.departments {
		if d.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) CreateDepartment(_ context.Context, d *academicsDatamodel.Department) error {
	if m.shouldFail {
		return m.failError
	}
	d.ID = m.nextID
	m.nextID++
	m.departments[d.ID] = d
	return nil
}

func (m *MockRepository) DeleteDepartment(_ context.Context, id int64) error {
	if _, ok := m.departments[id]; !ok {
		return internal.ErrDepartmentNotFound
	}
	for cid, c := range m.courses {
		if c.DepartmentID == id {
			delete(m.courses, cid)
		}
	}
	delete(m.departments, id)
	return nil
}

func (m *MockRepository) ListCourses(_ context.Context, departmentID int64) ([]*academicsDatamodel.Course, error) {
	if m.shouldFail {
		return nil, m.failError
	}
	var out []*academicsDatamodel.Course
	for _, c := range m.courses {
		if c.DepartmentID == departmentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (m *MockRepository) CourseCodeTaken(_ context.Context, code string) (bool, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockRepository) CreateCourse(_ context.Context, c *academicsDatamodel.Course) error {
	if m.shouldFail {
		return m.failError
	}
	c.ID = m.nextID
	m.nextID++
	c.Department = m.departments[c.DepartmentID]
	m.courses[c.ID] = c
	return nil
}

func (m *MockRepository) GetCourse(_ context.Context, id int64) (*academicsDatamodel.Course, error) {
	c, ok := m.courses[id]
	if !ok {
		return nil, internal.ErrCourseNotFound
	}
	return c, nil
}

func (m *MockRepository) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := m.courses[id]; !ok {
		return internal.ErrCourseNotFound
	}
	delete(m.courses, id)
	return nil
}

var _ = Describe("Academics Service", func() {
	var (
		ctx      context.Context
		mockRepo *MockRepository
		service  *academics.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		mockRepo = NewMockRepository()
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = academics.NewService(mockRepo, logger)
	})

	Describe("Departments", func() {
		It("creates and lists departments by name", func() {
			_, err := service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "Physics"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: " Biology "})
			Expect(err).NotTo(HaveOccurred())

			departments, err := service.ListDepartments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(departments).To(HaveLen(2))
			Expect(departments[0].Name).To(Equal("Biology"))
			Expect(departments[1].Name).To(Equal("Physics"))
		})

		It("returns an empty list rather than nil", func() {
			departments, err := service.ListDepartments(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(departments).NotTo(BeNil())
			Expect(departments).To(BeEmpty())
		})

		It("rejects a duplicate name", func() {
			_, err := service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "Physics"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "Physics"})
			Expect(errors.Is(err, internal.ErrDuplicateDepartment)).To(BeTrue())
		})

		It("rejects an empty name", func() {
			_, err := service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "   "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("deletes once and reports not found afterwards", func() {
			d, err := service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "Physics"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteDepartment(ctx, d.ID)).To(Succeed())
			err = service.DeleteDepartment(ctx, d.ID)
			Expect(errors.Is(err, internal.ErrDepartmentNotFound)).To(BeTrue())
		})

		It("propagates repository failures", func() {
			mockRepo.SetShouldFail(true, internal.NewInternalError("db down", nil))
			_, err := service.ListDepartments(ctx)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Courses", func() {
		var dept *academics.Department

		BeforeEach(func() {
			var err error
			dept, err = service.CreateDepartment(ctx, academics.CreateDepartmentDTO{Name: "Physics"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns an empty list when no department is given", func() {
			courses, err := service.ListCourses(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(courses).To(BeEmpty())
		})

		It("creates a course carrying its department name", func() {
			c, err := service.CreateCourse(ctx, academics.CreateCourseDTO{Department: dept.ID, Code: "PH101", Name: "Mechanics"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.DepartmentName).To(Equal("Physics"))
			Expect(c.Lecturers).To(BeEmpty())

			courses, err := service.ListCourses(ctx, &dept.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(courses).To(HaveLen(1))
			Expect(courses[0].Code).To(Equal("PH101"))
		})

		It("maps assigned lecturers", func() {
			c, err := service.CreateCourse(ctx, academics.CreateCourseDTO{Department: dept.ID, Code: "PH101", Name: "Mechanics"})
			Expect(err).NotTo(HaveOccurred())
			mockRepo.courses[c.ID].Lecturers = []userDatamodel.User{{ID: 9, FirstName: "Ruth", LastName: "Cohen", Email: "r@uni.ac.il"}}

			courses, err := service.ListCourses(ctx, &dept.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(courses[0].Lecturers).To(HaveLen(1))
			Expect(courses[0].Lecturers[0].FullNameDisplay).To(Equal("Ruth Cohen"))
		})

		It("rejects an unknown department and a duplicate code", func() {
			_, err := service.CreateCourse(ctx, academics.CreateCourseDTO{Department: 999, Code: "X1", Name: "X"})
			Expect(errors.Is(err, internal.ErrDepartmentNotFound)).To(BeTrue())

			_, err = service.CreateCourse(ctx, academics.CreateCourseDTO{Department: dept.ID, Code: "PH101", Name: "Mechanics"})
			Expect(err).NotTo(HaveOccurred())
			_, err = service.CreateCourse(ctx, academics.CreateCourseDTO{Department: dept.ID, Code: "PH101", Name: "Again"})
			Expect(errors.Is(err, internal.ErrDuplicateCourseCode)).To(BeTrue())
		})

		It("validates required course fields", func() {
			_, err := service.CreateCourse(ctx, academics.CreateCourseDTO{})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			details := appErr.Details.(internal.ValidationErrors)
			Expect(details.Errors).To(HaveLen(3))
		})

		It("deletes a course", func() {
			c, err := service.CreateCourse(ctx, academics.CreateCourseDTO{Department: dept.ID, Code: "PH101", Name: "Mechanics"})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.DeleteCourse(ctx, c.ID)).To(Succeed())
			Expect(errors.Is(service.DeleteCourse(ctx, c.ID), internal.ErrCourseNotFound)).To(BeTrue())
		})
	})
})
