package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/jobs"
	"github.com/SscSPs/statement_review_app/internal/platform/cache"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/platform/metrics"
	"github.com/SscSPs/statement_review_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/SscSPs/statement_review_app/pkg/database"
	"github.com/hibiken/asynq"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("load config", slog.Any("error", err))
		os.Exit(1)
	}
	if !cfg.AsyncEnabled() {
		logger.Error("REDIS_ADDR is not set, nothing to consume")
		os.Exit(1)
	}

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		// only useful for local experiments: the API process has its own memory
		logger.Warn("worker using in-memory storage")
		repos = memory.NewRepositoryProvider()
	default:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, true)
		if err != nil {
			logger.Error("connect database", slog.Any("error", err))
			os.Exit(1)
		}
		defer pool.Close()
		repos = pgsql.NewRepositoryProvider(pool)
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.Error("redis ping", slog.Any("error", err))
		os.Exit(1)
	}
	_ = redisClient.Close()

	container := services.NewServiceContainer(cfg, repos, metrics.NewMetrics())

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		},
		Concurrency: cfg.WorkerConcurrency,
		Logger:      logger,
		BatchJob:    jobs.NewBatchDispositionJob(container.Approval, logger),
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting", slog.Int("concurrency", cfg.WorkerConcurrency))
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
