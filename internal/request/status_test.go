package request_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/request"
)

var _ = Describe("Status and type labels", func() {
	DescribeTable("round-trips every status through its label",
		func(s request.Status, label string) {
			Expect(s.Display()).To(Equal(label))
			parsed, err := request.ParseDisplayStatus(label)
			Expect(err).NotTo(HaveOccurred())
			Expect(parsed).To(Equal(s))
		},
		Entry("pending", request.StatusPending, "ממתין"),
		Entry("in progress", request.StatusInProgress, "בטיפול"),
		Entry("approved", request.StatusApproved, "אושר"),
		Entry("rejected", request.StatusRejected, "נדחה"),
	)

	DescribeTable("rejects labels it does not know",
		func(label string) {
			_, err := request.ParseDisplayStatus(label)
			Expect(errors.Is(err, internal.ErrInvalidStatus)).To(BeTrue())
		},
		Entry("empty", ""),
		Entry("blank", "   "),
		Entry("internal key", "approved"),
		Entry("unknown", "סגור"),
	)

	It("falls back to the raw value for unknown statuses", func() {
		Expect(request.Status("archived").Display()).To(Equal("archived"))
	})

	DescribeTable("type labels",
		func(t request.Type, label string) {
			Expect(t.Display()).To(Equal(label))
		},
		Entry("appeal", request.TypeAppeal, "ערעור"),
		Entry("exemption", request.TypeExemption, "פטור"),
		Entry("military", request.TypeMilitary, "מילואים"),
		Entry("other", request.TypeOther, "אחר"),
	)

	It("defaults an empty type to other and rejects unknown types", func() {
		t, err := request.ParseType("")
		Expect(err).NotTo(HaveOccurred())
		Expect(t).To(Equal(request.TypeOther))

		_, err = request.ParseType("vacation")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})
})
