package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/academic-requests/internal/core/events"
)

const namespace = "academic_requests"

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, Name: "http_request_duration_seconds", Help: "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	DomainEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "domain_events_total", Help: "Published domain events",
	}, []string{"type"})

	StatusChanges = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Name: "request_status_changes_total", Help: "Request status transitions by target status",
	}, []string{"status"})

	FeedbackRatings = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "feedback_rating", Help: "Submitted feedback ratings",
		Buckets: []float64{1, 2, 3, 4, 5},
	})

	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, DomainEvents, StatusChanges, FeedbackRatings, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }

func ObserveHTTP(method, route string, status int, d time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func ObserveDBPing(d time.Duration) { DBPing.Observe(d.Seconds()) }

type Subscriber interface {
	Subscribe(eventType string, handler events.Handler)
}

// Subscribe counts every domain event the application publishes.
func Subscribe(bus Subscriber) {
	for _, t := range []string{
		events.EventTypeUserRegistered,
		events.EventTypePasswordResetRequested,
		events.EventTypeRequestSubmitted,
		events.EventTypeRequestStatusChanged,
		events.EventTypeRequestCommentAdded,
		events.EventTypeFeedbackSubmitted,
	} {
		bus.Subscribe(t, countEvent)
	}
}

func countEvent(_ context.Context, e events.Event) error {
	DomainEvents.WithLabelValues(e.EventType()).Inc()

	switch ev := e.(type) {
	case *events.RequestStatusChangedEvent:
		StatusChanges.WithLabelValues(ev.Status).Inc()
	case *events.FeedbackSubmittedEvent:
		FeedbackRatings.Observe(float64(ev.Rating))
	}
	return nil
}
