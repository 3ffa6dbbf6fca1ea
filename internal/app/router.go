package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/bahikhata/bahikhata/internal/cashaccounts"
	"github.com/bahikhata/bahikhata/internal/cheques"
	"github.com/bahikhata/bahikhata/internal/customers"
	"github.com/bahikhata/bahikhata/internal/enquiries"
	"github.com/bahikhata/bahikhata/internal/observability"
	"github.com/bahikhata/bahikhata/internal/partners"
	"github.com/bahikhata/bahikhata/internal/vendors"
	"github.com/bahikhata/bahikhata/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	CustomersHandler    *customers.Handler
	PartnersHandler     *partners.Handler
	VendorsHandler      *vendors.Handler
	ChequesHandler      *cheques.Handler
	CashAccountsHandler *cashaccounts.Handler
	EnquiriesHandler    *enquiries.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())

	r.Route("/customers", func(sr chi.Router) {
		params.CustomersHandler.MountRoutes(sr)
	})
	r.Route("/partners", func(sr chi.Router) {
		params.PartnersHandler.MountRoutes(sr)
	})
	r.Route("/vendors", func(sr chi.Router) {
		params.VendorsHandler.MountRoutes(sr)
	})
	r.Route("/cheques", func(sr chi.Router) {
		params.ChequesHandler.MountRoutes(sr)
	})
	r.Route("/cash-accounts", func(sr chi.Router) {
		params.CashAccountsHandler.MountRoutes(sr)
	})
	r.Route("/enquiries", func(sr chi.Router) {
		params.EnquiriesHandler.MountRoutes(sr)
	})
	r.Route("/jobs", params.JobHandler.MountRoutes)

	return r
}
