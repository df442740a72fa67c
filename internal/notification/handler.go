package notification

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64, unreadOnly bool) ([]Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
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

// List handles GET /notifications/{user_id}?unread=. Only unread
// notifications are returned unless unread=false.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := h.PathInt64(r, "user_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	unreadOnly := true
	if raw := r.URL.Query().Get("unread"); raw != "" {
		unreadOnly, err = strconv.ParseBool(raw)
		if err != nil {
			h.HandleServiceError(w, r, internal.NewValidationFieldError("unread", "unread must be a boolean", internal.ErrCodeValidationFailed))
			return
		}
	}

	notifications, err := h.Service.List(r.Context(), userID, unreadOnly)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, notifications)
}

// MarkAllRead handles POST /notifications/{user_id}/read
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	userID, err := h.PathInt64(r, "user_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	n, err := h.Service.MarkAllRead(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MarkAllReadResponse{Message: "כל ההתראות סומנו כנקראו", Updated: n})
}

// UnreadCount handles GET /notifications/{user_id}/unread-count
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	userID, err := h.PathInt64(r, "user_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	n, err := h.Service.UnreadCount(r.Context(), userID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, UnreadCountResponse{Unread: n})
}
