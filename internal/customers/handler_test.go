package customers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (chi.Router, int64) {
	t.Helper()
	repo := newMemoryRepo()
	svc := NewService(repo, nil)

	customer, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Ramesh Traders"})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := chi.NewRouter()
	NewHandler(logger, svc, nil).MountRoutes(router)
	return router, customer.ID
}

func postJSON(t *testing.T, router chi.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestIssueLoanNegativePrincipalBadRequest(t *testing.T) {
	router, customerID := newTestRouter(t)

	rec := postJSON(t, router, fmt.Sprintf("/%d/loans", customerID), IssueLoanRequest{
		Principal: dec("-100"), IssuedOn: day(2024, 1, 5),
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var problem struct {
		Title  string `json:"title"`
		Status int    `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	require.Equal(t, "Validation Failed", problem.Title)
	require.Equal(t, http.StatusBadRequest, problem.Status)
}

func TestRecordPaymentForeignLoanBadRequest(t *testing.T) {
	router, customerID := newTestRouter(t)

	// A loan held by somebody else must not accept this customer's payment.
	rec := postJSON(t, router, fmt.Sprintf("/%d/loans", customerID), IssueLoanRequest{
		Principal: dec("1000"), IssuedOn: day(2024, 1, 5),
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var loan Loan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &loan))

	rec = postJSON(t, router, fmt.Sprintf("/%d/payments", customerID+99), RecordPaymentRequest{
		LoanID: loan.ID, Amount: dec("100"), PaidOn: day(2024, 2, 1),
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownCustomerNotFound(t *testing.T) {
	router, customerID := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/%d", customerID+99), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}
