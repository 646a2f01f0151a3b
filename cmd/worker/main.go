package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/app"
	"github.com/ganbatte/backoffice/internal/clients"
	"github.com/ganbatte/backoffice/internal/docstore"
	"github.com/ganbatte/backoffice/internal/notifications"
	"github.com/ganbatte/backoffice/internal/operations"
	"github.com/ganbatte/backoffice/internal/platform/cache"
	"github.com/ganbatte/backoffice/internal/quotations"
	"github.com/ganbatte/backoffice/internal/sequence"
	"github.com/ganbatte/backoffice/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// connectivity check only, asynq manages its own connections
	if redisClient, err := cache.New(ctx, cfg.RedisAddr); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	} else if err := redisClient.Close(); err != nil {
		logger.Warn("redis close", slog.Any("error", err))
	}

	docStore, err := docstore.NewStore(cfg.DocsDir, logger)
	if err != nil {
		logger.Error("init document store", slog.Any("error", err))
		os.Exit(1)
	}

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

	clientRepo := clients.NewRepository(pool)
	quotationRepo := quotations.NewRepository(pool)
	quotationCodes := sequence.NewGenerator(quotationRepo, logger)
	quotationService := quotations.NewService(quotationRepo, clientRepo, quotationCodes, jobsClient, docStore, logger)

	operationRepo := operations.NewRepository(pool)
	operationCodes := sequence.NewGenerator(operationRepo, logger)
	operationService := operations.NewService(operationRepo, quotationRepo, operationCodes, logger)

	notificationRepo := notifications.NewRepository(pool)
	notificationService := notifications.NewService(notificationRepo, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskNotifyDispatch, Handler: jobs.NewNotifyDispatchHandler(notificationService)},
			{Type: jobs.TaskOperationPromote, Handler: jobs.NewOperationPromoteHandler(operationService)},
			{Type: jobs.TaskQuotationExpirySweep, Handler: jobs.NewExpirySweepHandler(quotationService, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.SweepCron, Task: jobs.NewExpirySweepTask(), Options: []asynq.Option{asynq.MaxRetry(1)}},
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
