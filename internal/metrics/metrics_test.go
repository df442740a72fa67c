package metrics_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/frahmantamala/academic-requests/internal/core/events"
	"github.com/frahmantamala/academic-requests/internal/metrics"
)

var _ = Describe("Metrics", func() {
	It("counts domain events by type", func() {
		bus := events.NewEventBus(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})))
		metrics.Subscribe(bus)

		before := testutil.ToFloat64(metrics.DomainEvents.WithLabelValues(events.EventTypeRequestStatusChanged))
		approvedBefore := testutil.ToFloat64(metrics.StatusChanges.WithLabelValues("approved"))

		Expect(bus.PublishSync(context.Background(), events.NewRequestStatusChangedEvent(1, 2, "approved"))).To(Succeed())

		Expect(testutil.ToFloat64(metrics.DomainEvents.WithLabelValues(events.EventTypeRequestStatusChanged))).To(Equal(before + 1))
		Expect(testutil.ToFloat64(metrics.StatusChanges.WithLabelValues("approved"))).To(Equal(approvedBefore + 1))
	})

	It("records HTTP observations and exposes them", func() {
		metrics.ObserveHTTP(http.MethodGet, "/api/v1/requests/{id}", http.StatusOK, 20*time.Millisecond)

		rec := httptest.NewRecorder()
		metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		body, _ := io.ReadAll(rec.Body)
		Expect(string(body)).To(ContainSubstring(`academic_requests_http_requests_total{method="GET",route="/api/v1/requests/{id}",status="200"}`))
	})
})
