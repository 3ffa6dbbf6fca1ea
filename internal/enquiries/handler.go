package enquiries

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// Handler manages enquiry endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers enquiry routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/due", h.listDue)
	r.Get("/overview", h.overview)
	r.Get("/{id}", h.get)
	r.Post("/{id}/followups", h.addFollowUp)
	r.Get("/{id}/followups", h.listFollowUps)
	r.Post("/{id}/status", h.updateStatus)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateEnquiryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	enquiry, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create enquiry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, enquiry)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	enquiry, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get enquiry", err)
		return
	}
	httpx.JSON(w, http.StatusOK, enquiry)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := StatusFilter(r.URL.Query().Get("status"))
	enquiries, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list enquiries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"enquiries": enquiries})
}

func (h *Handler) listDue(w http.ResponseWriter, r *http.Request) {
	due := time.Now().UTC()
	if v := r.URL.Query().Get("due"); v != "" {
		parsed, err := shared.ParseDate(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		due = *parsed
	}
	enquiries, err := h.service.ListDue(r.Context(), due)
	if err != nil {
		h.respondError(w, "list due enquiries", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"enquiries": enquiries})
}

func (h *Handler) addFollowUp(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req AddFollowUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	followUp, err := h.service.AddFollowUp(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "add follow-up", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, followUp)
}

func (h *Handler) listFollowUps(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	followUps, err := h.service.ListFollowUps(r.Context(), id)
	if err != nil {
		h.respondError(w, "list follow-ups", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"followups": followUps})
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	enquiry, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "update status", err)
		return
	}
	httpx.JSON(w, http.StatusOK, enquiry)
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	counts, err := h.service.Overview(r.Context())
	if err != nil {
		h.respondError(w, "enquiry overview", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"statuses": counts})
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid id")
		return 0, false
	}
	return id, true
}

func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	var verr validator.ValidationErrors
	switch {
	case errors.As(err, &verr):
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", verr.Error())
	case errors.Is(err, httpx.ErrNotFound),
		errors.Is(err, httpx.ErrValidation),
		errors.Is(err, httpx.ErrDuplicate),
		errors.Is(err, httpx.ErrConflict):
		httpx.RespondError(w, err)
	default:
		h.logger.Error(op, slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
