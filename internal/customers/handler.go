package customers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/bahikhata/bahikhata/internal/export"
	"github.com/bahikhata/bahikhata/internal/ledger"
	"github.com/bahikhata/bahikhata/internal/platform/httpx"
	"github.com/bahikhata/bahikhata/internal/shared"
)

// Handler manages customer endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
	pdf     *export.PDFExporter
}

// NewHandler builds a Handler instance. pdf may be nil, which disables
// the PDF export route body with a 503.
func NewHandler(logger *slog.Logger, service *Service, pdf *export.PDFExporter) *Handler {
	return &Handler{logger: logger, service: service, pdf: pdf}
}

// MountRoutes registers customer routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/summary", h.rankedSummary)
	r.Get("/summary.csv", h.rankedSummaryCSV)
	r.Get("/{id}", h.get)
	r.Post("/{id}/loans", h.issueLoan)
	r.Post("/loans/{loanID}/close", h.closeLoan)
	r.Post("/{id}/payments", h.recordPayment)
	r.Get("/{id}/statement", h.statement)
	r.Get("/{id}/statement.csv", h.statementCSV)
	r.Get("/{id}/statement.pdf", h.statementPDF)
	r.Get("/{id}/summary", h.summaryAsOf)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateCustomerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	customer, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, "create customer", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, customer)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	customer, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.respondError(w, "get customer", err)
		return
	}
	httpx.JSON(w, http.StatusOK, customer)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	req := ListCustomersRequest{Search: q.Get("search"), Page: page, PerPage: perPage}

	items, total, err := h.service.List(r.Context(), req)
	if err != nil {
		h.respondError(w, "list customers", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"customers":  items,
		"pagination": shared.NewPagination(req.Page, req.PerPage, total),
	})
}

func (h *Handler) issueLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	var req IssueLoanRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "malformed JSON body")
		return
	}
	loan, err := h.service.IssueLoan(r.Context(), id, req)
	if err != nil {
		h.respondError(w, "issue loan", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, loan)
}

func (h *Handler) closeLoan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "loanID")
	if !ok {
		return
	}
	if err := h.service.CloseLoan(r.Context(), id); err != nil {
		h.respondError(w, "close loan", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func (h *Handler) recordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
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
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="customer-%d-statement.csv"`, stmt.CustomerID))
	if err := export.WriteStatementCSV(w, stmt.Entries, stmt.Summary); err != nil {
		h.logger.Error("write statement csv", slog.Any("error", err))
	}
}

func (h *Handler) statementPDF(w http.ResponseWriter, r *http.Request) {
	stmt, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	if h.pdf == nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "PDF Unavailable", "pdf renderer not configured")
		return
	}
	customer, err := h.service.Get(r.Context(), stmt.CustomerID)
	if err != nil {
		h.respondError(w, "get customer", err)
		return
	}
	pdf, err := h.pdf.RenderStatement(r.Context(), export.StatementPayload{
		Title:   "Customer Statement – " + customer.Name,
		Entries: stmt.Entries,
		Summary: stmt.Summary,
	})
	if err != nil {
		h.respondError(w, "render statement pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="customer-%d-statement.pdf"`, stmt.CustomerID))
	_, _ = w.Write(pdf)
}

func (h *Handler) summaryAsOf(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	asOf := time.Now().UTC()
	if v := r.URL.Query().Get("as_of"); v != "" {
		parsed, err := shared.ParseDate(v)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		asOf = *parsed
	}
	summary, err := h.service.SummaryAsOf(r.Context(), id, asOf)
	if err != nil {
		h.respondError(w, "summary as of", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) rankedSummary(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFilter(w, r)
	if !ok {
		return
	}
	ranked, err := h.service.RankedOutstanding(r.Context(), status)
	if err != nil {
		h.respondError(w, "ranked summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"customers": ranked})
}

func (h *Handler) rankedSummaryCSV(w http.ResponseWriter, r *http.Request) {
	status, ok := h.statusFilter(w, r)
	if !ok {
		return
	}
	ranked, err := h.service.RankedOutstanding(r.Context(), status)
	if err != nil {
		h.respondError(w, "ranked summary", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="customers-outstanding.csv"`)
	if err := export.WriteRankingCSV(w, ranked); err != nil {
		h.logger.Error("write ranking csv", slog.Any("error", err))
	}
}

func (h *Handler) loadStatement(w http.ResponseWriter, r *http.Request) (*Statement, bool) {
	id, ok := h.pathID(w, r, "id")
	if !ok {
		return nil, false
	}
	window, err := shared.WindowFromQuery(r.URL.Query())
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return nil, false
	}
	status, ok := h.statusFilter(w, r)
	if !ok {
		return nil, false
	}
	stmt, err := h.service.Statement(r.Context(), id, window, status)
	if err != nil {
		h.respondError(w, "build statement", err)
		return nil, false
	}
	return stmt, true
}

func (h *Handler) statusFilter(w http.ResponseWriter, r *http.Request) (StatusFilter, bool) {
	switch v := StatusFilter(r.URL.Query().Get("status")); v {
	case StatusAll, StatusActive, StatusClosed:
		return v, true
	default:
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "status must be active or closed")
		return StatusAll, false
	}
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
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
	case errors.Is(err, ledger.ErrInvalidRecord):
		httpx.Problem(w, http.StatusUnprocessableEntity, "Invalid Records", err.Error())
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
