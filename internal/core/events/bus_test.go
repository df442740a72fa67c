package events_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync/atomic"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/academic-requests/internal/core/events"
)

var _ = Describe("EventBus", func() {
	var (
		bus *events.EventBus
		ctx context.Context
	)

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		ctx = context.Background()
	})

	It("delivers asynchronous events to every subscriber", func() {
		var calls int32
		handler := func(ctx context.Context, e events.Event) error {
			atomic.AddInt32(&calls, 1)
			return nil
		}
		bus.Subscribe(events.EventTypeRequestStatusChanged, handler)
		bus.Subscribe(events.EventTypeRequestStatusChanged, handler)

		Expect(bus.Publish(ctx, events.NewRequestStatusChangedEvent(1, 2, "approved"))).To(Succeed())
		bus.Wait()

		Expect(atomic.LoadInt32(&calls)).To(Equal(int32(2)))
	})

	It("keeps running handlers after the publishing context is cancelled", func() {
		cctx, cancel := context.WithCancel(ctx)
		var sawErr atomic.Value
		bus.Subscribe(events.EventTypeUserRegistered, func(hctx context.Context, e events.Event) error {
			sawErr.Store(hctx.Err() == nil)
			return nil
		})

		Expect(bus.Publish(cctx, events.NewUserRegisteredEvent(1, "a@b.c", "Dana", "student"))).To(Succeed())
		cancel()
		bus.Wait()

		Expect(sawErr.Load()).To(Equal(true))
	})

	It("recovers from a panicking handler", func() {
		bus.Subscribe(events.EventTypeFeedbackSubmitted, func(context.Context, events.Event) error {
			panic("boom")
		})

		Expect(bus.Publish(ctx, events.NewFeedbackSubmittedEvent(1, 5, "general"))).To(Succeed())
		bus.Wait()
	})

	It("returns the first synchronous handler error", func() {
		bus.Subscribe(events.EventTypeRequestCommentAdded, func(context.Context, events.Event) error {
			return errors.New("nope")
		})

		err := bus.PublishSync(ctx, events.NewRequestCommentAddedEvent(1, 2, []int64{3}))
		Expect(err).To(MatchError(ContainSubstring("request.comment_added")))
	})

	It("ignores events nobody listens to", func() {
		Expect(bus.PublishSync(ctx, events.NewRequestSubmittedEvent(1, 2, "appeal"))).To(Succeed())
	})
})
