package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/academics"
	academicsPostgres "github.com/frahmantamala/academic-requests/internal/academics/postgres"
	"github.com/frahmantamala/academic-requests/internal/assistant"
	"github.com/frahmantamala/academic-requests/internal/auth"
	authPostgres "github.com/frahmantamala/academic-requests/internal/auth/postgres"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/feedback"
	feedbackPostgres "github.com/frahmantamala/academic-requests/internal/feedback/postgres"
	"github.com/frahmantamala/academic-requests/internal/mailer"
	"github.com/frahmantamala/academic-requests/internal/metrics"
	"github.com/frahmantamala/academic-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/academic-requests/internal/notification/postgres"
	"github.com/frahmantamala/academic-requests/internal/observability"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/report"
	"github.com/frahmantamala/academic-requests/internal/request"
	requestPostgres "github.com/frahmantamala/academic-requests/internal/request/postgres"
	"github.com/frahmantamala/academic-requests/internal/storage"
	"github.com/frahmantamala/academic-requests/internal/transport/rest"
	"github.com/frahmantamala/academic-requests/internal/transport/swagger"
	"github.com/frahmantamala/academic-requests/internal/user"
	userPostgres "github.com/frahmantamala/academic-requests/internal/user/postgres"
	"github.com/frahmantamala/academic-requests/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	Gorm     *gorm.DB
	Router   *chi.Mux
	EventBus *events.EventBus
	Mailer   *mailer.Mailer
	Logger   *slog.Logger
	flush    func()
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.flush()

	if err := setupRoutes(deps); err != nil {
		deps.Logger.Error("failed to set up routes", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	// In-flight event handlers may still enqueue mail, so wait for them first.
	deps.EventBus.Wait()
	deps.Mailer.Shutdown()
	if err := deps.DB.Close(); err != nil {
		deps.Logger.Error("Database close error", "error", err)
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(deps *Dependencies) error {
	cfg := deps.Config
	lg := deps.Logger
	gdb := deps.Gorm

	if _, err := swagger.Load(context.Background(), cfg.Server.OpenAPIPath); err != nil {
		return err
	}

	files, err := storage.NewLocalStorage(cfg.Storage.UploadDir, lg)
	if err != nil {
		return err
	}

	pol := policy.New()
	bus := deps.EventBus

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewRepository(gdb), tokens, bus, auth.Options{
		BCryptCost:  cfg.Security.BCryptCost,
		FrontendURL: cfg.Server.FrontendURL,
	}, lg)

	userRepo := userPostgres.NewRepository(gdb)
	userService := user.NewService(userRepo, bus, cfg.Security.BCryptCost, lg)
	academicsService := academics.NewService(academicsPostgres.NewRepository(gdb), lg)

	requestRepo := requestPostgres.NewRequestRepository(gdb)
	requestService := request.NewService(requestRepo, userRepo, files, pol, bus, lg)
	notificationService := notification.NewService(notificationPostgres.NewNotificationRepository(gdb), lg)
	feedbackService := feedback.NewService(feedbackPostgres.NewFeedbackRepository(gdb), userRepo, pol, bus, lg)
	assistantService := assistant.NewService(requestRepo, assistant.NewOpenAICompleter(cfg.Assistant, lg), lg)
	reportService := report.NewService(requestService, feedbackService, lg)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService, pol, lg),
		Authorizer:   auth.NewAuthorizer(pol, deps.DB, lg),
		User:         user.NewHandler(userService, lg),
		Academics:    academics.NewHandler(academicsService, lg),
		Request:      request.NewHandler(requestService, pol, lg),
		Notification: notification.NewHandler(notificationService, lg),
		Feedback:     feedback.NewHandler(feedbackService, lg),
		Assistant:    assistant.NewHandler(assistantService, pol, lg),
		Report:       report.NewHandler(reportService, lg),
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, handlers, rest.Options{
		AllowedOrigins: cfg.Server.Origins(),
		OpenAPIPath:    cfg.Server.OpenAPIPath,
		MetricsEnabled: cfg.Observability.Metrics.Enabled,
		MetricsPath:    cfg.Observability.Metrics.Path,
		UploadDir:      files.Root(),
		UploadURL:      cfg.Storage.BaseURL,
	}, lg)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	flush, err := observability.InitSentry(config.Observability.Sentry.DSN, config.Env, config.Observability.Sentry.Release)
	if err != nil {
		lg.Warn("sentry disabled", "error", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	gdb, err := initGorm(db, config.Env != "production")
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	bus := events.NewEventBus(lg)
	mail := mailer.New(mailer.NewSender(config.Mail, lg), mailer.Config{
		Workers:   config.Mail.Workers,
		QueueSize: config.Mail.QueueSize,
	}, lg)
	mail.Subscribe(bus)
	if config.Observability.Metrics.Enabled {
		metrics.Subscribe(bus)
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		Gorm:     gdb,
		Router:   chi.NewRouter(),
		EventBus: bus,
		Mailer:   mail,
		Logger:   lg,
		flush:    flush,
	}, nil
}
