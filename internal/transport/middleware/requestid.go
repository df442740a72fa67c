package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/academic-requests/pkg/logger"
)

const TraceHeader = "X-Trace-ID"

// RequestID propagates X-Trace-ID, minting one when the caller sent none, and
// tags the context logger with it.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(TraceHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.WithTraceID(r.Context(), traceID)
		w.Header().Set(TraceHeader, traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
