package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal/auth"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/testutil/testdb"
	"github.com/frahmantamala/academic-requests/internal/user"
	userPostgres "github.com/frahmantamala/academic-requests/internal/user/postgres"
)

var _ = Describe("User Handler", func() {
	var (
		db      *gorm.DB
		router  *chi.Mux
		service *user.Service
		caller  *auth.User
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.NewSQLite()
		Expect(err).NotTo(HaveOccurred())

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = user.NewService(userPostgres.NewRepository(db), nil, bcrypt.MinCost, logger)
		handler := user.NewHandler(service, logger)

		caller = nil
		withCaller := func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if caller != nil {
					r = r.WithContext(auth.ContextWithUser(r.Context(), caller))
				}
				next.ServeHTTP(w, r)
			})
		}

		router = chi.NewRouter()
		router.Post("/auth/register", handler.Register)
		router.Group(func(r chi.Router) {
			r.Use(withCaller)
			r.Get("/users/me", handler.GetCurrentUser)
			r.Put("/users/{id}", handler.UpdateProfile)
			r.Delete("/users/{id}", handler.Delete)
		})
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	do := func(method, path string, body interface{}) *httptest.ResponseRecorder {
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

	It("registers a user and returns the profile", func() {
		rec := do(http.MethodPost, "/auth/register", map[string]interface{}{
			"first_name": "Dana",
			"last_name":  "Levi",
			"email":      "dana@uni.ac.il",
			"password":   "secret",
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var resp user.RegisterResponse
		Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Message).To(Equal("User registered successfully."))
		Expect(resp.User.Role).To(Equal("student"))
		Expect(resp.User.Courses).To(BeEmpty())
	})

	It("rejects an empty registration body", func() {
		rec := do(http.MethodPost, "/auth/register", nil)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("returns 409 for a taken email", func() {
		body := map[string]interface{}{"first_name": "A", "last_name": "B", "email": "a@uni.ac.il", "password": "pw"}
		Expect(do(http.MethodPost, "/auth/register", body).Code).To(Equal(http.StatusCreated))
		Expect(do(http.MethodPost, "/auth/register", body).Code).To(Equal(http.StatusConflict))
	})

	Context("with an authenticated caller", func() {
		var registered *user.User

		BeforeEach(func() {
			var err error
			registered, err = service.Register(context.Background(), user.RegisterDTO{
				FirstName: "Dana", LastName: "Levi", Email: "dana@uni.ac.il", Password: "pw",
			})
			Expect(err).NotTo(HaveOccurred())
			caller = &auth.User{ID: registered.ID, Email: registered.Email, Role: policy.RoleStudent, IsApproved: true}
		})

		It("returns the caller's own profile", func() {
			rec := do(http.MethodGet, "/users/me", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var u user.User
			Expect(json.Unmarshal(rec.Body.Bytes(), &u)).To(Succeed())
			Expect(u.ID).To(Equal(registered.ID))
			Expect(u.FullNameDisplay).To(Equal("Dana Levi"))
		})

		It("updates the profile with a confirmation message", func() {
			rec := do(http.MethodPut, "/users/"+itoa(registered.ID), map[string]interface{}{"phone_number": "0501234567"})
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp struct {
				Message string    `json:"message"`
				User    user.User `json:"user"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Message).To(Equal("הפרופיל עודכן בהצלחה!"))
			Expect(resp.User.PhoneNumber).To(Equal("0501234567"))
		})

		It("refuses a self-promotion to admin", func() {
			rec := do(http.MethodPut, "/users/"+itoa(registered.ID), map[string]interface{}{"role": "admin"})
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("deletes with 204 and then 404", func() {
			Expect(do(http.MethodDelete, "/users/"+itoa(registered.ID), nil).Code).To(Equal(http.StatusNoContent))
			Expect(do(http.MethodDelete, "/users/"+itoa(registered.ID), nil).Code).To(Equal(http.StatusNotFound))
		})
	})

	It("answers 401 for /users/me without a caller", func() {
		Expect(do(http.MethodGet, "/users/me", nil).Code).To(Equal(http.StatusUnauthorized))
	})
})

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
