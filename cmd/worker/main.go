package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/bahikhata/bahikhata/internal/app"
	"github.com/bahikhata/bahikhata/internal/customers"
	"github.com/bahikhata/bahikhata/internal/enquiries"
	"github.com/bahikhata/bahikhata/internal/platform/cache"
	"github.com/bahikhata/bahikhata/internal/platform/db"
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

	summaryCache := customers.NewSummaryCache(redisClient, cfg.SummaryCacheTTL)
	customersService := customers.NewService(customers.NewRepository(pool), summaryCache)
	enquiriesService := enquiries.NewService(enquiries.NewRepository(pool))

	reminderJob := jobs.NewFollowupReminderJob(enquiriesService, logger)
	warmupJob := jobs.NewSummaryWarmupJob(customersService, logger)
	snapshotJob := jobs.NewInterestSnapshotJob(customersService, pool, logger)

	reminderTask, err := jobs.NewFollowupReminderTask(jobs.FollowupReminderPayload{})
	if err != nil {
		logger.Error("build reminder task", slog.Any("error", err))
		os.Exit(1)
	}
	snapshotTask, err := jobs.NewInterestSnapshotTask(jobs.InterestSnapshotPayload{})
	if err != nil {
		logger.Error("build snapshot task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskFollowupReminder, Handler: reminderJob.Handle},
			{Type: jobs.TaskSummaryWarmup, Handler: warmupJob.Handle},
			{Type: jobs.TaskInterestSnapshot, Handler: snapshotJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 * * *", Task: jobs.NewSummaryWarmupTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 3 * * *", Task: reminderTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 4 * * *", Task: snapshotTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
