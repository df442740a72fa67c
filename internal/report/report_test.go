package report_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"

	"github.com/frahmantamala/academic-requests/internal/feedback"
	"github.com/frahmantamala/academic-requests/internal/report"
	"github.com/frahmantamala/academic-requests/internal/request"
)

type stubRequests struct {
	rows   []*request.Request
	filter request.ManagementFilter
	err    error
}

func (s *stubRequests) ListForManagement(_ context.Context, filter request.ManagementFilter) ([]*request.Request, error) {
	s.filter = filter
	return s.rows, s.err
}

type stubFeedback struct {
	rows []*feedback.Feedback
}

func (s *stubFeedback) List(context.Context) ([]*feedback.Feedback, error) {
	return s.rows, nil
}

var _ = Describe("Report", func() {
	var (
		requests *stubRequests
		service  *report.Service
	)

	BeforeEach(func() {
		fb := "please attach the syllabus"
		name := "Dana Levi"
		requests = &stubRequests{rows: []*request.Request{{
			ID: 3, StudentName: "Dana Levi", RequestTypeDisplay: "ערעור", Subject: "Calculus",
			StatusDisplay: "ממתין", SubmittedAt: time.Date(2026, 1, 2, 10, 30, 0, 0, time.UTC),
			AssignedLecturer: &request.LecturerSummary{ID: 9, FullName: "Avi Cohen"}, Feedback: &fb,
		}}}
		fbs := &stubFeedback{rows: []*feedback.Feedback{
			{ID: 1, UserName: &name, RatingDisplay: "5 - מעולה", CategoryDisplay: "כללי", Comment: "great"},
			{ID: 2, RatingDisplay: "2 - גרוע", CategoryDisplay: "האתר", Comment: "slow", IsAnonymous: true},
		}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = report.NewService(requests, fbs, logger)
	})

	It("builds a requests sheet and a feedback sheet", func() {
		f, err := service.Workbook(context.Background(), request.ManagementFilter{})
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{report.RequestsSheet, report.FeedbackSheet}))

		rows, err := f.GetRows(report.RequestsSheet)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
		Expect(rows[1]).To(Equal([]string{"3", "Dana Levi", "ערעור", "Calculus", "ממתין", "Avi Cohen", "2026-01-02 10:30", "please attach the syllabus"}))

		rows, err = f.GetRows(report.FeedbackSheet)
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[1][1]).To(Equal("Dana Levi"))
		Expect(rows[2][1]).To(Equal("אנונימי"))
	})

	It("serves the workbook with the management filters applied", func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		router := chi.NewRouter()
		router.Get("/reports/requests.xlsx", report.NewHandler(service, logger).Export)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/requests.xlsx?lecturer_id=9", nil))

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Header().Get("Content-Type")).To(HavePrefix("application/vnd.openxmlformats"))
		Expect(requests.filter.LecturerID).NotTo(BeNil())
		Expect(*requests.filter.LecturerID).To(Equal(int64(9)))

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(f.GetSheetList()).To(ContainElement(report.FeedbackSheet))
	})

	It("returns a JSON error when the listing fails", func() {
		requests.err = errors.New("db down")
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		router := chi.NewRouter()
		router.Get("/reports/requests.xlsx", report.NewHandler(service, logger).Export)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reports/requests.xlsx", nil))
		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Header().Get("Content-Disposition")).To(BeEmpty())
	})
})
