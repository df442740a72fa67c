package feedback

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/academic-requests/internal/auth"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

type ServiceAPI interface {
	Submit(ctx context.Context, actor policy.Actor, dto SubmitFeedbackDTO) (*Feedback, error)
	List(ctx context.Context) ([]*Feedback, error)
	Delete(ctx context.Context, id int64) error
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

// Submit handles POST /feedback. user_id defaults to the caller.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto SubmitFeedbackDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if dto.UserID == nil {
		id := caller.ID
		dto.UserID = &id
	}

	created, err := h.Service.Submit(r.Context(), caller.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, SubmitResponse{Message: "המשוב נשלח בהצלחה", Feedback: created})
}

// List handles GET /feedback
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.List(r.Context())
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, list)
}

// Delete handles DELETE /feedback/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MessageResponse{Message: "המשוב נמחק בהצלחה"})
}
