package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/observability"
	"github.com/frahmantamala/academic-requests/pkg/logger"
)

// RecoveryMiddleware turns panics into a 500 error body and reports them to
// Sentry when it is configured.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				lg.Error("panic recovered",
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"traceID", logger.TraceID(r.Context()),
					"stack", string(debug.Stack()))

				observability.CapturePanic(rec, map[string]string{
					"method":  r.Method,
					"path":    r.URL.Path,
					"traceID": logger.TraceID(r.Context()),
				})

				status, body := internal.NewInternalError("internal server error", nil).ToHTTPResponse()
				writeJSON(w, status, body)
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
