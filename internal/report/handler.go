package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/academic-requests/internal/request"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Write(ctx context.Context, filter request.ManagementFilter, w io.Writer) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// Export handles GET /reports/requests.xlsx and accepts the management
// listing filters.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var (
		filter request.ManagementFilter
		err    error
	)
	if filter.DepartmentID, err = h.QueryInt64(r, "department_id"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if filter.LecturerID, err = h.QueryInt64(r, "lecturer_id"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if filter.StudentID, err = h.QueryInt64(r, "student_id"); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	name := fmt.Sprintf("requests_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	// Headers are committed on first write; failures before that still get a
	// JSON error.
	buf := &deferredWriter{w: w}
	if err := h.Service.Write(r.Context(), filter, buf); err != nil {
		if !buf.started {
			w.Header().Del("Content-Disposition")
			h.HandleServiceError(w, r, err)
			return
		}
		h.Logger.Error("report stream interrupted", "error", err)
	}
}

type deferredWriter struct {
	w       http.ResponseWriter
	started bool
}

func (d *deferredWriter) Write(p []byte) (int, error) {
	d.started = true
	return d.w.Write(p)
}
