package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/mailer"
	"github.com/frahmantamala/academic-requests/internal/metrics"
	"github.com/frahmantamala/academic-requests/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Publish domain events through the in-process bus and its mail and metrics subscribers`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish [event-type]",
	Short: "Publish a test event",
	Long:  `Publish a domain event (e.g. user.registered, user.password_reset_requested) for testing and debugging`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(args[0])
	},
}

var (
	eventUserID int64
	eventEmail  string
	eventName   string
	eventLink   string
)

func buildTestEvent(eventType string) (events.Event, error) {
	switch eventType {
	case events.EventTypeUserRegistered:
		return events.NewUserRegisteredEvent(eventUserID, eventEmail, eventName, "student"), nil
	case events.EventTypePasswordResetRequested:
		return events.NewPasswordResetRequestedEvent(eventUserID, eventEmail, eventLink), nil
	case events.EventTypeRequestSubmitted:
		return events.NewRequestSubmittedEvent(1, eventUserID, "other"), nil
	case events.EventTypeRequestStatusChanged:
		return events.NewRequestStatusChangedEvent(1, eventUserID, "approved"), nil
	}
	return nil, fmt.Errorf("unsupported event type %q", eventType)
}

func publishTestEvent(eventType string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	event, err := buildTestEvent(eventType)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	mail := mailer.New(mailer.NewSender(cfg.Mail, lg), mailer.Config{Workers: 1, QueueSize: 10}, lg)
	mail.Subscribe(bus)
	metrics.Subscribe(bus)

	lg.Info("publishing test event", "event_type", event.EventType(), "event_id", event.EventID())
	if err := bus.PublishSync(context.Background(), event); err != nil {
		mail.Shutdown()
		return fmt.Errorf("publish event: %w", err)
	}

	mail.Shutdown()
	lg.Info("test event published successfully")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 1, "user id carried by the event")
	publishEventCmd.Flags().StringVar(&eventEmail, "email", "student@example.com", "recipient email")
	publishEventCmd.Flags().StringVar(&eventName, "name", "Test Student", "recipient full name")
	publishEventCmd.Flags().StringVar(&eventLink, "link", "http://localhost:3000/reset-password/test", "password reset link")

	eventCmd.AddCommand(publishEventCmd)

	rootCmd.AddCommand(eventCmd)
}
