package cheques

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/platform/httpx"
)

// Handler manages cheque endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers cheque routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.register)
	r.Get("/{id}", h.get)
	r.Post("/{id}/transition", h.transition)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterChequeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	cheque, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.respondError(w, "register cheque", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, cheque)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	cheque, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get cheque", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cheque)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := ListFilter{Status: Status(r.URL.Query().Get("status"))}
	if filter.Status != "" && !filter.Status.Valid() {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "status must be pending, processing, cleared or bounced")
		return
	}
	cheques, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, "list cheques", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cheques": cheques})
}

func (h *Handler) transition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req TransitionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	cheque, err := h.service.Transition(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "transition cheque", err)
		return
	}
	httpx.JSON(w, http.StatusOK, cheque)
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
