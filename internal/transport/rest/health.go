package rest

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/frahmantamala/academic-requests/internal/metrics"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

const dbPingTimeout = 2 * time.Second

type HealthStatus string

const (
	HealthHealthy   HealthStatus = "healthy"
	HealthUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status     HealthStatus          `json:"status"`
	CheckedAt  time.Time             `json:"checked_at"`
	Components map[string]CheckEntry `json:"components"`
}

type CheckEntry struct {
	Status     HealthStatus   `json:"status"`
	Message    string         `json:"message,omitempty"`
	Details    map[string]any `json:"details,omitempty"`
	DurationMs int64          `json:"duration_ms"`
}

type HealthHandler struct {
	*transport.BaseHandler
	db *sql.DB
}

func NewHealthHandler(db *sql.DB, base *transport.BaseHandler) *HealthHandler {
	return &HealthHandler{BaseHandler: base, db: db}
}

// Ping reports liveness only.
func (h *HealthHandler) Ping(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

// Health reports readiness. The service is unhealthy while postgres does not
// answer a ping.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	pg := h.checkPostgres(r.Context())

	code := http.StatusOK
	if pg.Status != HealthHealthy {
		code = http.StatusServiceUnavailable
	}
	h.WriteJSON(w, code, HealthResponse{
		Status:     pg.Status,
		CheckedAt:  time.Now().UTC(),
		Components: map[string]CheckEntry{"postgres": pg},
	})
}

func (h *HealthHandler) checkPostgres(ctx context.Context) CheckEntry {
	ctx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()

	start := time.Now()
	err := h.db.PingContext(ctx)
	took := time.Since(start)
	metrics.ObserveDBPing(took)

	if err != nil {
		return CheckEntry{Status: HealthUnhealthy, Message: err.Error(), DurationMs: took.Milliseconds()}
	}
	stats := h.db.Stats()
	return CheckEntry{
		Status:     HealthHealthy,
		DurationMs: took.Milliseconds(),
		Details: map[string]any{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		},
	}
}
