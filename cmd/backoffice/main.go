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
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ganbatte/backoffice/internal/app"
	"github.com/ganbatte/backoffice/internal/clients"
	"github.com/ganbatte/backoffice/internal/docstore"
	"github.com/ganbatte/backoffice/internal/fx"
	"github.com/ganbatte/backoffice/internal/notifications"
	"github.com/ganbatte/backoffice/internal/operations"
	"github.com/ganbatte/backoffice/internal/platform/cache"
	"github.com/ganbatte/backoffice/internal/quotations"
	"github.com/ganbatte/backoffice/internal/sequence"
	"github.com/ganbatte/backoffice/internal/tariffs"
	"github.com/ganbatte/backoffice/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, fx caching disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
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

	clientRepo := clients.NewRepository(dbpool)

	quotationRepo := quotations.NewRepository(dbpool)
	quotationCodes := sequence.NewGenerator(quotationRepo, logger)
	quotationService := quotations.NewService(quotationRepo, clientRepo, quotationCodes, jobsClient, docStore, logger)
	quotationHandler := quotations.NewHandler(logger, quotationService)

	clientService := clients.NewService(clientRepo, quotationService, logger)
	clientHandler := clients.NewHandler(logger, clientService)

	operationRepo := operations.NewRepository(dbpool)
	operationCodes := sequence.NewGenerator(operationRepo, logger)
	operationService := operations.NewService(operationRepo, quotationRepo, operationCodes, logger)
	operationHandler := operations.NewHandler(logger, operationService)

	notificationRepo := notifications.NewRepository(dbpool)
	notificationService := notifications.NewService(notificationRepo, logger)
	notificationHandler := notifications.NewHandler(logger, notificationService)

	tariffRepo := tariffs.NewRepository(dbpool)
	tariffService := tariffs.NewService(tariffRepo, logger)
	tariffHandler := tariffs.NewHandler(logger, tariffService)

	fxClient := fx.NewClient(cfg.FXBaseURL, cfg.FXTimeout, logger)
	if redisClient != nil {
		fxClient = fxClient.WithCache(redisClient, time.Hour)
	}
	fxHandler := fx.NewHandler(fxClient)

	documentHandler := docstore.NewHandler(logger, docStore)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		QuotationHandler:    quotationHandler,
		OperationHandler:    operationHandler,
		ClientHandler:       clientHandler,
		TariffHandler:       tariffHandler,
		NotificationHandler: notificationHandler,
		FXHandler:           fxHandler,
		DocumentHandler:     documentHandler,
		JobHandler:          jobHandler,
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
