package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bahikhata/bahikhata/internal/app"
	"github.com/bahikhata/bahikhata/internal/cashaccounts"
	"github.com/bahikhata/bahikhata/internal/cheques"
	"github.com/bahikhata/bahikhata/internal/customers"
	"github.com/bahikhata/bahikhata/internal/enquiries"
	"github.com/bahikhata/bahikhata/internal/export"
	"github.com/bahikhata/bahikhata/internal/observability"
	"github.com/bahikhata/bahikhata/internal/partners"
	"github.com/bahikhata/bahikhata/internal/platform/cache"
	"github.com/bahikhata/bahikhata/internal/platform/db"
	"github.com/bahikhata/bahikhata/internal/vendors"
	"github.com/bahikhata/bahikhata/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, summary cache disabled", slog.Any("error", err))
		redisClient = nil
	}
	defer func() {
		if redisClient == nil {
			return
		}
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	pdfExporter := &export.PDFExporter{
		Endpoint: cfg.GotenbergURL,
		Client:   &http.Client{Timeout: 30 * time.Second},
	}

	summaryCache := customers.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	customersService := customers.NewService(customers.NewRepository(pool), summaryCache)
	customersHandler := customers.NewHandler(logger, customersService, pdfExporter)

	partnersService := partners.NewService(partners.NewRepository(pool))
	partnersHandler := partners.NewHandler(logger, partnersService)

	vendorsService := vendors.NewService(vendors.NewRepository(pool))
	vendorsHandler := vendors.NewHandler(logger, vendorsService)

	chequesService := cheques.NewService(cheques.NewRepository(pool))
	chequesHandler := cheques.NewHandler(logger, chequesService)

	cashService := cashaccounts.NewService(cashaccounts.NewRepository(pool))
	cashHandler := cashaccounts.NewHandler(logger, cashService)

	enquiriesService := enquiries.NewService(enquiries.NewRepository(pool))
	enquiriesHandler := enquiries.NewHandler(logger, enquiriesService)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, jobsClient, logger)

	metrics := observability.NewMetrics()
	startedAt := time.Now()
	metrics.Registerer().MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "bahikhata_uptime_seconds",
		Help: "Seconds since the server process started.",
	}, func() float64 {
		return time.Since(startedAt).Seconds()
	}))

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		CustomersHandler:    customersHandler,
		PartnersHandler:     partnersHandler,
		VendorsHandler:      vendorsHandler,
		ChequesHandler:      chequesHandler,
		CashAccountsHandler: cashHandler,
		EnquiriesHandler:    enquiriesHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
