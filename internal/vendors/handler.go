package vendors

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

// Handler manages vendor endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers vendor routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/payables", h.payables)
	r.Get("/{id}", h.get)
	r.Post("/{id}/bills", h.recordBill)
	r.Post("/{id}/payments", h.recordPayment)
	r.Get("/{id}/statement", h.statement)
	r.Get("/{id}/statement.csv", h.statementCSV)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateVendorRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	vendor, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create vendor", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, vendor)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	vendor, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get vendor", err)
		return
	}
	httpx.JSON(w, http.StatusOK, vendor)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	vendors, err := h.service.List(r.Context())
	if err != nil {
		h.respondError(w, "list vendors", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vendors": vendors})
}

func (h *Handler) recordBill(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req RecordBillRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	bill, err := h.service.RecordBill(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "record bill", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, bill)
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req RecordPaymentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	payment, err := h.service.RecordPayment(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "record payment", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
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
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vendor-%d-statement.csv"`, stmt.VendorID))
	if err := export.WriteStatementCSV(w, stmt.Entries, stmt.Summary); err != nil {
		h.logger.Error("write statement csv", slog.Any("error", err))
	}
}

func (h *Handler) payables(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.service.RankedPayables(r.Context())
	if err != nil {
		h.respondError(w, "ranked payables", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"vendors": ranked})
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
