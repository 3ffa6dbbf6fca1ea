package partners

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/export"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// Handler manages partner endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers partner routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/positions", h.positions)
	r.Get("/{id}", h.get)
	r.Post("/{id}/entries", h.recordEntry)
	r.Get("/{id}/statement", h.statement)
	r.Get("/{id}/statement.csv", h.statementCSV)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreatePartnerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	partner, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create partner", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, partner)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	partner, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get partner", err)
		return
	}
	httpx.JSON(w, http.StatusOK, partner)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	partners, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list partners", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"partners": partners})
}

func (h *Handler) recordEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req RecordEntryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	entry, err := h.service.RecordEntry(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "record entry", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, entry)
}

func (h *Handler) statement(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	httpx.JSON(w, http.StatusOK, stmt)
}

func (h *Handler) statementCSV(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="partner-%d-statement.csv"`, stmt.PartnerID))
	if err := export.WriteStatementCSV(w, stmt.Entries, stmt.Summary); err != nil {
		h.logger.Error("write statement csv", slog.Any("error", err))
	}
}

func (h *Handler) positions(w http.ResponseWriter, r *http.Request) {
	positions, err := h.service.Positions(r.Context())
	if err != nil {
		h.respondError(w, "partner positions", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"partners": positions})
}

func (h *Handler) loadStatement(w http.ResponseWriter, r *http.Request) (*Statement, bool) {
	id, ok := h.pathID(w, r)
	if !ok {
		return nil, false
	}
	window, err := shared.WindowFromQuery(r.URL.Query())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return nil, false
	}
	stmt, err := h.service.Statement(r.Context(), id, window)
	if err != nil {
		h.respondError(w, "build statement", err)
		return nil, false
	}
	return stmt, true
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
