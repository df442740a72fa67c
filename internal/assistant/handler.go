package assistant

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/auth"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

type ServiceAPI interface {
	Chat(ctx context.Context, dto ChatDTO) (string, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
	Policy  *policy.Policy
}

func NewHandler(svc ServiceAPI, pol *policy.Policy, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
		Policy:      pol,
	}
}

// Chat handles POST /assistant/chat. Every answer, including failures, is
// rendered as {"reply": "..."}.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ChatDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.WriteJSON(w, http.StatusBadRequest, Reply{Reply: ErrEmptyMessage.Message})
		return
	}

	if dto.StudentID != nil && *dto.StudentID != caller.ID && !h.Policy.Allowed(caller.Actor(), policy.RequestManage, policy.Resource{}) {
		h.HandleServiceError(w, r, internal.ErrPermissionDenied)
		return
	}

	reply, err := h.Service.Chat(r.Context(), dto)
	if err != nil {
		h.writeFailure(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, Reply{Reply: reply})
}

func (h *Handler) writeFailure(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if ok && appErr.Type == internal.ErrorTypeValidation {
		h.WriteJSON(w, http.StatusBadRequest, Reply{Reply: appErr.Message})
		return
	}

	cause := err
	if ok && appErr.Cause != nil {
		cause = appErr.Cause
	}
	if errors.Is(err, context.DeadlineExceeded) {
		h.Logger.Warn("assistant timed out")
	}
	h.WriteJSON(w, http.StatusInternalServerError, Reply{Reply: "שגיאה: " + cause.Error()})
}
