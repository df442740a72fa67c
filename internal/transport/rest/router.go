package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/academic-requests/internal/academics"
	"github.com/frahmantamala/academic-requests/internal/assistant"
	"github.com/frahmantamala/academic-requests/internal/auth"
	"github.com/frahmantamala/academic-requests/internal/feedback"
	"github.com/frahmantamala/academic-requests/internal/metrics"
	"github.com/frahmantamala/academic-requests/internal/notification"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/report"
	"github.com/frahmantamala/academic-requests/internal/request"
	"github.com/frahmantamala/academic-requests/internal/transport"
	"github.com/frahmantamala/academic-requests/internal/transport/middleware"
	"github.com/frahmantamala/academic-requests/internal/transport/swagger"
	"github.com/frahmantamala/academic-requests/internal/user"
)

type Handlers struct {
	Auth         *auth.Handler
	Authorizer   *auth.Authorizer
	User         *user.Handler
	Academics    *academics.Handler
	Request      *request.Handler
	Notification *notification.Handler
	Feedback     *feedback.Handler
	Assistant    *assistant.Handler
	Report       *report.Handler
}

type Options struct {
	AllowedOrigins []string
	OpenAPIPath    string
	MetricsEnabled bool
	MetricsPath    string
	UploadDir      string
	UploadURL      string
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, opts Options, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db, transport.NewBaseHandler(logger))
	authz := h.Authorizer

	router.Use(middleware.CORS(opts.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.LoggingMiddleware(logger))
	if opts.MetricsEnabled {
		router.Use(middleware.Metrics)
		router.Handle(opts.MetricsPath, metrics.Handler())
	}

	router.Get(swagger.DocURL, swagger.DocHandler(opts.OpenAPIPath))
	router.Handle("/swagger/*", swagger.Handler())

	if opts.UploadDir != "" && opts.UploadURL != "" {
		fs := http.StripPrefix(opts.UploadURL, http.FileServer(http.Dir(opts.UploadDir)))
		router.Handle(opts.UploadURL+"/*", fs)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Get("/ping", healthHandler.Ping)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.User.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/forgot-password", h.Auth.ForgotPassword)
			sr.Post("/reset-password/{id}/{token}", h.Auth.ResetPassword)
		})

		r.Get("/departments", h.Academics.ListDepartments)
		r.Get("/courses", h.Academics.ListCourses)

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Group(func(ar chi.Router) {
				ar.Use(authz.Require(policy.CatalogAdmin))
				ar.Post("/departments", h.Academics.CreateDepartment)
				ar.Delete("/departments/{id}", h.Academics.DeleteDepartment)
				ar.Post("/courses", h.Academics.CreateCourse)
				ar.Delete("/courses/{id}", h.Academics.DeleteCourse)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/me", h.User.GetCurrentUser)
				ur.With(authz.RequireSelf(policy.UserUpdate, "id")).Put("/{id}", h.User.UpdateProfile)
				ur.Put("/{id}/password", h.Auth.ChangePassword)

				ur.Group(func(ar chi.Router) {
					ar.Use(authz.Require(policy.UserAdmin))
					ar.Get("/department/{id}", h.User.ListByDepartment)
					ar.Delete("/{id}", h.User.Delete)
					ar.Put("/{id}/courses", h.User.AssignCourses)
				})
			})

			pr.Route("/requests", func(rr chi.Router) {
				rr.Post("/", h.Request.Create)
				rr.Get("/", h.Request.ListByStudent)
				rr.With(authz.Require(policy.RequestManage)).Get("/manage", h.Request.ListForManagement)

				rr.Route("/{id}", func(ir chi.Router) {
					ir.With(authz.RequireOnRequest(policy.RequestView)).Get("/", h.Request.Get)
					ir.With(authz.RequireOnRequest(policy.RequestUpdateStatus)).Put("/status", h.Request.UpdateStatus)
					ir.With(authz.RequireOnRequest(policy.RequestView)).Get("/comments", h.Request.ListComments)
					ir.With(authz.RequireOnRequest(policy.RequestComment)).Post("/comments", h.Request.AddComment)
					ir.With(authz.RequireOnRequest(policy.RequestView)).Post("/comments/read", h.Request.MarkCommentsRead)
				})
			})

			pr.Route("/notifications/{user_id}", func(nr chi.Router) {
				nr.Use(authz.RequireSelf(policy.NotificationRead, "user_id"))
				nr.Get("/", h.Notification.List)
				nr.Get("/unread-count", h.Notification.UnreadCount)
				nr.Post("/read", h.Notification.MarkAllRead)
			})

			pr.Route("/feedback", func(fr chi.Router) {
				fr.Post("/", h.Feedback.Submit)
				fr.With(authz.Require(policy.FeedbackAdmin)).Get("/", h.Feedback.List)
				fr.With(authz.Require(policy.FeedbackAdmin)).Delete("/{id}", h.Feedback.Delete)
			})

			pr.Post("/assistant/chat", h.Assistant.Chat)

			pr.With(authz.Require(policy.ReportExport)).Get("/reports/requests.xlsx", h.Report.Export)
		})
	})
}
