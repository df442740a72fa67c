package request_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/request"
)

var _ = Describe("Recipients", func() {
	const (
		student  int64 = 1
		lecturer int64 = 2
		admin1   int64 = 3
		admin2   int64 = 4
	)
	lecturerID := lecturer

	withLecturer := request.Participants{StudentID: student, AssignedLecturerID: &lecturerID, DepartmentAdmins: []int64{admin1, admin2}}
	noLecturer := request.Participants{StudentID: student, DepartmentAdmins: []int64{admin1}}

	DescribeTable("fan-out by author",
		func(author policy.Actor, p request.Participants, expected []int64) {
			Expect(request.Recipients(author, p)).To(Equal(expected))
		},
		Entry("student notifies lecturer and department admins",
			policy.Actor{ID: student, Role: policy.RoleStudent}, withLecturer, []int64{lecturer, admin1, admin2}),
		Entry("student without a lecturer notifies admins only",
			policy.Actor{ID: student, Role: policy.RoleStudent}, noLecturer, []int64{admin1}),
		Entry("assigned lecturer notifies the student",
			policy.Actor{ID: lecturer, Role: policy.RoleLecturer}, withLecturer, []int64{student}),
		Entry("admin notifies student and lecturer",
			policy.Actor{ID: admin1, Role: policy.RoleAdmin}, withLecturer, []int64{student, lecturer}),
		Entry("admin without a lecturer notifies the student",
			policy.Actor{ID: admin1, Role: policy.RoleAdmin}, noLecturer, []int64{student}),
		Entry("unrelated lecturer notifies nobody",
			policy.Actor{ID: 99, Role: policy.RoleLecturer}, withLecturer, []int64{}),
	)

	It("never includes the author", func() {
		selfAssigned := student
		p := request.Participants{StudentID: student, AssignedLecturerID: &selfAssigned, DepartmentAdmins: []int64{student, admin1}}
		Expect(request.Recipients(policy.Actor{ID: student, Role: policy.RoleStudent}, p)).To(Equal([]int64{admin1}))
	})

	It("collapses duplicates", func() {
		p := request.Participants{StudentID: student, AssignedLecturerID: &lecturerID, DepartmentAdmins: []int64{admin1, admin1, lecturer}}
		Expect(request.Recipients(policy.Actor{ID: student, Role: policy.RoleStudent}, p)).To(Equal([]int64{lecturer, admin1}))
	})

	It("treats an admin who owns the request as its student", func() {
		p := request.Participants{StudentID: admin1, AssignedLecturerID: &lecturerID, DepartmentAdmins: []int64{admin1, admin2}}
		Expect(request.Recipients(policy.Actor{ID: admin1, Role: policy.RoleAdmin}, p)).To(Equal([]int64{lecturer, admin2}))
	})
})
