package request

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/academic-requests/internal"
	"github.com/frahmantamala/academic-requests/internal/auth"
	"github.com/frahmantamala/academic-requests/internal/policy"
	"github.com/frahmantamala/academic-requests/internal/transport"
)

const maxUploadSize = 10 << 20

type ServiceAPI interface {
	Create(ctx context.Context, actor policy.Actor, dto CreateRequestDTO) (*Request, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*Request, error)
	ListForManagement(ctx context.Context, filter ManagementFilter) ([]*Request, error)
	GetByID(ctx context.Context, id int64) (*Request, error)
	UpdateStatus(ctx context.Context, id int64, dto UpdateStatusDTO) (*Request, error)
	AddComment(ctx context.Context, requestID, authorID int64, dto AddCommentDTO) (*Comment, error)
	ListComments(ctx context.Context, requestID int64) ([]*Comment, error)
	MarkCommentsRead(ctx context.Context, requestID, readerID int64) (int64, error)
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

// Create handles POST /requests (multipart/form-data)
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	dto, cleanup, err := h.parseCreateForm(r)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	defer cleanup()

	created, err := h.Service.Create(r.Context(), caller.Actor(), dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, CreateResponse{
		ID:      created.ID,
		Message: "בקשה נוצרה בהצלחה",
		Status:  "success",
		Request: created,
	})
}

func (h *Handler) parseCreateForm(r *http.Request) (CreateRequestDTO, func(), error) {
	noop := func() {}
	var dto CreateRequestDTO

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return dto, noop, internal.NewValidationError("invalid multipart form", internal.ErrCodeValidationFailed).WithCause(err)
		}
	} else if err := r.ParseForm(); err != nil {
		return dto, noop, internal.NewValidationError("invalid form", internal.ErrCodeValidationFailed).WithCause(err)
	}

	studentID, err := formInt64(r, "student_id", "student")
	if err != nil {
		return dto, noop, err
	}
	lecturerID, err := formInt64(r, "assigned_lecturer_id")
	if err != nil {
		return dto, noop, err
	}

	dto = CreateRequestDTO{
		StudentID:          studentID,
		RequestType:        r.FormValue("request_type"),
		Subject:            r.FormValue("subject"),
		Description:        r.FormValue("description"),
		AssignedLecturerID: lecturerID,
	}

	if r.MultipartForm == nil {
		return dto, noop, nil
	}
	file, header, err := r.FormFile("attached_file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return dto, noop, nil
		}
		return dto, noop, internal.NewValidationError("invalid attached_file", internal.ErrCodeValidationFailed).WithCause(err)
	}
	dto.File = &Attachment{Filename: header.Filename, Content: file}
	return dto, func() { _ = file.Close() }, nil
}

// formInt64 reads the first non-empty field among names.
func formInt64(r *http.Request, names ...string) (*int64, error) {
	for _, name := range names {
		raw := strings.TrimSpace(r.FormValue(name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, internal.NewValidationFieldError(name, name+" must be an integer", internal.ErrCodeValidationFailed)
		}
		return &v, nil
	}
	return nil, nil
}

// ListByStudent handles GET /requests?student_id=. Without a student id the
// caller's own requests are listed; other students need the manage capability.
func (h *Handler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	studentID, err := h.QueryInt64(r, "student_id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	target := caller.ID
	if studentID != nil {
		target = *studentID
	}
	if target != caller.ID {
		if err := h.Policy.Authorize(caller.Actor(), policy.RequestManage, policy.Resource{}); err != nil {
			h.HandleServiceError(w, r, err)
			return
		}
	}

	requests, err := h.Service.ListByStudent(r.Context(), target)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, requests)
}

// ListForManagement handles GET /requests/manage
func (h *Handler) ListForManagement(w http.ResponseWriter, r *http.Request) {
	var filter ManagementFilter
	var err error
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

	requests, err := h.Service.ListForManagement(r.Context(), filter)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, requests)
}

// Get handles GET /requests/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	req, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

// UpdateStatus handles PUT /requests/{id}/status
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto UpdateStatusDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	updated, err := h.Service.UpdateStatus(r.Context(), id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, updated)
}

// ListComments handles GET /requests/{id}/comments
func (h *Handler) ListComments(w http.ResponseWriter, r *http.Request) {
	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	comments, err := h.Service.ListComments(r.Context(), id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, comments)
}

// AddComment handles POST /requests/{id}/comments. The caller is the author;
// participation is checked by the service.
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	var dto AddCommentDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	comment, err := h.Service.AddComment(r.Context(), id, caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, comment)
}

// MarkCommentsRead handles POST /requests/{id}/comments/read
func (h *Handler) MarkCommentsRead(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, err := h.PathInt64(r, "id")
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	n, err := h.Service.MarkCommentsRead(r.Context(), id, caller.ID)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, MarkReadResponse{Updated: n})
}
