package mailer_test

import (
	"context"
	"log/slog"
	"os"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/mailer"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	gate chan struct{}
}

func (s *recordingSender) Send(_ context.Context, msg mailer.Message) error {
	if s.gate != nil {
		<-s.gate
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, msg)
	return nil
}

func (s *recordingSender) messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

var _ = Describe("Mailer", func() {
	var (
		logger *slog.Logger
		sender *recordingSender
	)

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		sender = &recordingSender{}
	})

	It("delivers every queued message before shutdown returns", func() {
		m := mailer.New(sender, mailer.Config{Workers: 3, QueueSize: 50}, logger)
		for i := 0; i < 20; i++ {
			Expect(m.Enqueue(mailer.Message{To: []string{"a@uni.ac.il"}, Subject: "s"})).To(Succeed())
		}
		m.Shutdown()

		Expect(sender.messages()).To(HaveLen(20))
	})

	It("rejects messages after shutdown", func() {
		m := mailer.New(sender, mailer.Config{}, logger)
		m.Shutdown()
		m.Shutdown()

		Expect(m.Enqueue(mailer.Message{})).To(MatchError(mailer.ErrClosed))
	})

	It("reports a full queue instead of blocking", func() {
		sender.gate = make(chan struct{})
		m := mailer.New(sender, mailer.Config{Workers: 1, QueueSize: 1}, logger)

		Eventually(func() error {
			return m.Enqueue(mailer.Message{Subject: "x"})
		}).Should(MatchError(mailer.ErrQueueFull))

		close(sender.gate)
		m.Shutdown()
	})

	Describe("event subscriptions", func() {
		var (
			bus *events.EventBus
			m   *mailer.Mailer
		)

		BeforeEach(func() {
			bus = events.NewEventBus(logger)
			m = mailer.New(sender, mailer.Config{Workers: 1}, logger)
			m.Subscribe(bus)
		})

		It("sends a welcome mail on registration", func() {
			Expect(bus.PublishSync(context.Background(), events.NewUserRegisteredEvent(1, "dana@uni.ac.il", "Dana Levi", "student"))).To(Succeed())
			m.Shutdown()

			msgs := sender.messages()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].To).To(Equal([]string{"dana@uni.ac.il"}))
			Expect(msgs[0].Subject).To(Equal("הרשמה בוצעה בהצלחה"))
			Expect(msgs[0].Body).To(Equal("שלום Dana Levi, ההרשמה הושלמה!"))
		})

		It("sends the reset link", func() {
			link := "http://localhost:3000/reset-password/1/tok"
			Expect(bus.PublishSync(context.Background(), events.NewPasswordResetRequestedEvent(1, "dana@uni.ac.il", link))).To(Succeed())
			m.Shutdown()

			msgs := sender.messages()
			Expect(msgs).To(HaveLen(1))
			Expect(msgs[0].Subject).To(Equal("איפוס סיסמה"))
			Expect(msgs[0].Body).To(Equal("לשינוי הסיסמה, לחץ כאן: " + link))
		})
	})

	It("falls back to logging when no smtp host is configured", func() {
		s := mailer.NewSender(internal.MailConfig{}, logger)
		Expect(s).To(BeAssignableToTypeOf(&mailer.LogSender{}))
		Expect(s.Send(context.Background(), mailer.Message{Subject: "x"})).To(Succeed())
	})
})
