package mailer

import (
	"context"
	"fmt"

	"github.com/frahmantamala/academic-requests/internal/core/events"
)

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Subscribe turns account events into outgoing mail.
func (m *Mailer) Subscribe(bus Subscriber) {
	bus.Subscribe(events.EventTypeUserRegistered, m.onUserRegistered)
	bus.Subscribe(events.EventTypePasswordResetRequested, m.onPasswordResetRequested)
}

func (m *Mailer) onUserRegistered(_ context.Context, e events.Event) error {
	ev, ok := e.(*events.UserRegisteredEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}
	return m.Enqueue(Message{
		To:      []string{ev.Email},
		Subject: "הרשמה בוצעה בהצלחה",
		Body:    fmt.Sprintf("שלום %s, ההרשמה הושלמה!", ev.FullName),
	})
}

func (m *Mailer) onPasswordResetRequested(_ context.Context, e events.Event) error {
	ev, ok := e.(*events.PasswordResetRequestedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload %T", e)
	}
	return m.Enqueue(Message{
		To:      []string{ev.Email},
		Subject: "איפוס סיסמה",
		Body:    "לשינוי הסיסמה, לחץ כאן: " + ev.ResetLink,
	})
}
