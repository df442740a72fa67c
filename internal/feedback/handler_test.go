package feedback_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal/auth"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/academic-requests/internal/feedback/postgres"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/testutil/testdb"
	userPostgres "github.com/frahmantamala/academic-requests/internal/user/postgres"
)

var _ = Describe("Feedback Handler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
		caller *auth.User
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		row := &userDatamodel.User{Username: "dana@uni.ac.il", Email: "dana@uni.ac.il", FirstName: "Dana", LastName: "Levi", Role: "student", PasswordHash: "x"}
		Expect(db.Create(row).Error).To(Succeed())
		caller = auth.FromDataModel(row)

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc := feedback.NewService(feedbackPostgres.NewFeedbackRepository(db), userPostgres.NewRepository(db), policy.New(), nil, logger)
		handler := feedback.NewHandler(svc, logger)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), caller)))
			})
		})
		router.Post("/feedback", handler.Submit)
		router.Get("/feedback", handler.List)
		router.Delete("/feedback/{id}", handler.Delete)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body)).WithContext(context.Background())
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("submits feedback for the caller and lists it", func() {
		rec := do(http.MethodPost, "/feedback", `{"rating": 4, "comment": "nice", "category": "process"}`)
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var resp feedback.SubmitResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("המשוב נשלח בהצלחה"))
		Expect(resp.Feedback.User).To(Equal(caller.ID))
		Expect(resp.Feedback.CategoryDisplay).To(Equal("תהליך הבקשות"))

		rec = do(http.MethodGet, "/feedback", "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list []feedback.Feedback
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(1))
	})

	It("answers 400 for an out of range rating", func() {
		rec := do(http.MethodPost, "/feedback", `{"rating": 9, "comment": "x"}`)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("deletes feedback and answers 404 afterwards", func() {
		rec := do(http.MethodPost, "/feedback", `{"rating": 4, "comment": "nice"}`)
		var resp feedback.SubmitResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		path := "/feedback/" + strconv.FormatInt(resp.Feedback.ID, 10)

		rec = do(http.MethodDelete, path, "")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"message": "המשוב נמחק בהצלחה"}`))

		Expect(do(http.MethodDelete, path, "").Code).To(Equal(http.StatusNotFound))
	})
})
