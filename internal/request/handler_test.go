package request_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal/auth"
	userDatamodel "github.com/frahmantamala/academic-requests/internal/core/datamodel/user"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/request"
	requestPostgres "github.com/frahmantamala/academic-requests/internal/request/postgres"
	"github.com/frahmantamala/academic-requests/internal/testutil/testdb"
	userPostgres "github.com/frahmantamala/academic-requests/internal/user/postgres"
)

var _ = Describe("Request Handler", func() {
	var (
		db     *gorm.DB
		c      campus
		files  *memoryStore
		router *chi.Mux
		caller *userDatamodel.User
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.NewSQLite()
		Expect(err).NotTo(HaveOccurred())
		c = seedCampus(db)
		files = newMemoryStore()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		pol := policy.New()
		svc := request.NewService(requestPostgres.NewRequestRepository(db), userPostgres.NewRepository(db), files, pol, nil, logger)
		handler := request.NewHandler(svc, pol, logger)

		caller = c.student
		withCaller := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				r = r.WithContext(auth.ContextWithUser(r.Context(), auth.FromDataModel(caller)))
				next.ServeHTTP(w, r)
			})
		}

		router = chi.NewRouter()
		router.Use(withCaller)
		router.Post("/requests", handler.Create)
		router.Get("/requests", handler.ListByStudent)
		router.Get("/requests/manage", handler.ListForManagement)
		router.Get("/requests/{id}", handler.Get)
		router.Put("/requests/{id}/status", handler.UpdateStatus)
		router.Get("/requests/{id}/comments", handler.ListComments)
		router.Post("/requests/{id}/comments", handler.AddComment)
		router.Post("/requests/{id}/comments/read", handler.MarkCommentsRead)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	doJSON := func(method, path string, body interface{}) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			Expect(json.NewEncoder(&buf).Encode(body)).To(Succeed())
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	submit := func(fields map[string]string, filename, content string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		for k, v := range fields {
			Expect(mw.WriteField(k, v)).To(Succeed())
		}
		if filename != "" {
			fw, err := mw.CreateFormFile("attached_file", filename)
			Expect(err).NotTo(HaveOccurred())
			_, err = fw.Write([]byte(content))
			Expect(err).NotTo(HaveOccurred())
		}
		Expect(mw.Close()).To(Succeed())

		req := httptest.NewRequest(http.MethodPost, "/requests", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	It("creates a request from a multipart form with an attachment", func() {
		rec := submit(map[string]string{
			"request_type":         "military",
			"subject":              "Reserve duty",
			"description":          "Called up for three weeks",
			"assigned_lecturer_id": strconv.FormatInt(c.lecturer.ID, 10),
		}, "orders.pdf", "orders")
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var resp request.CreateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("בקשה נוצרה בהצלחה"))
		Expect(resp.Status).To(Equal("success"))
		Expect(resp.Request.RequestTypeDisplay).To(Equal("מילואים"))
		Expect(resp.Request.AttachedFile).NotTo(BeNil())
		Expect(files.saved).To(HaveLen(1))
	})

	It("rejects a malformed student id", func() {
		rec := submit(map[string]string{"student_id": "abc"}, "", "")
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("lists the caller's requests and guards other students", func() {
		Expect(submit(map[string]string{"subject": "mine"}, "", "").Code).To(Equal(http.StatusCreated))

		rec := doJSON(http.MethodGet, "/requests", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		var list []request.Request
		Expect(json.Unmarshal(rec.Body.Bytes(), &list)).To(Succeed())
		Expect(list).To(HaveLen(1))

		rec = doJSON(http.MethodGet, "/requests?student_id="+strconv.FormatInt(c.otherStudent.ID, 10), nil)
		Expect(rec.Code).To(Equal(http.StatusForbidden))

		caller = c.lecturer
		rec = doJSON(http.MethodGet, "/requests?student_id="+strconv.FormatInt(c.student.ID, 10), nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
	})

	It("updates status with display strings and rejects unknown ones", func() {
		rec := submit(map[string]string{"subject": "s", "assigned_lecturer_id": strconv.FormatInt(c.lecturer.ID, 10)}, "", "")
		var created request.CreateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		path := "/requests/" + strconv.FormatInt(created.ID, 10)

		caller = c.lecturer
		rec = doJSON(http.MethodPut, path+"/status", map[string]string{"status": "בטיפול", "feedback": "looking"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		var updated request.Request
		Expect(json.Unmarshal(rec.Body.Bytes(), &updated)).To(Succeed())
		Expect(updated.Status).To(Equal("בטיפול"))
		Expect(updated.StatusKey).To(Equal("in_progress"))

		rec = doJSON(http.MethodPut, path+"/status", map[string]string{"status": "done"})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))

		rec = doJSON(http.MethodPut, "/requests/9999/status", map[string]string{"status": "אושר"})
		Expect(rec.Code).To(Equal(http.StatusNotFound))
	})

	It("threads comments and marks them read", func() {
		rec := submit(map[string]string{"subject": "s", "assigned_lecturer_id": strconv.FormatInt(c.lecturer.ID, 10)}, "", "")
		var created request.CreateResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		path := "/requests/" + strconv.FormatInt(created.ID, 10) + "/comments"

		caller = c.lecturer
		Expect(doJSON(http.MethodPost, path, map[string]string{"content": "Please attach the form"}).Code).To(Equal(http.StatusCreated))
		Expect(doJSON(http.MethodPost, path, map[string]string{"content": ""}).Code).To(Equal(http.StatusBadRequest))

		caller = c.outsider
		Expect(doJSON(http.MethodPost, path, map[string]string{"content": "hi"}).Code).To(Equal(http.StatusForbidden))

		caller = c.student
		rec = doJSON(http.MethodPost, path+"/read", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(MatchJSON(`{"updated": 1}`))

		rec = doJSON(http.MethodGet, path, nil)
		var comments []request.Comment
		Expect(json.Unmarshal(rec.Body.Bytes(), &comments)).To(Succeed())
		Expect(comments).To(HaveLen(1))
		Expect(comments[0].AuthorName).To(Equal("Ruth Cohen"))
		Expect(comments[0].IsRead).To(BeTrue())
	})
})
