package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	portsrepo "github.com/SscSPs/statement_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/statement_review_app/internal/core/services"
	"github.com/SscSPs/statement_review_app/internal/handlers"
	"github.com/SscSPs/statement_review_app/internal/jobs"
	"github.com/SscSPs/statement_review_app/internal/middleware"
	"github.com/SscSPs/statement_review_app/internal/platform/cache"
	"github.com/SscSPs/statement_review_app/internal/platform/config"
	"github.com/SscSPs/statement_review_app/internal/platform/metrics"
	"github.com/SscSPs/statement_review_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/statement_review_app/internal/repositories/memory"
	"github.com/SscSPs/statement_review_app/internal/utils/validation"
	"github.com/SscSPs/statement_review_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

// @title Statement Review API
// @version 1.0
// @description Staging and approval of transactions extracted from brokerage statements.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var repos portsrepo.RepositoryProvider
	switch cfg.StorageDriver {
	case config.StorageMemory:
		logger.Warn("Using in-memory storage")
		repos = memory.NewRepositoryProvider()
	default:
		dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer dbPool.Close()
		logger.Info("Database connection pool established.")

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	}

	m := metrics.NewMetrics()
	container := services.NewServiceContainer(cfg, repos, m)

	if cfg.AsyncEnabled() {
		redisClient, err := cache.New(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Redis unreachable, async batch dispositions disabled", slog.String("error", err.Error()))
		} else {
			_ = redisClient.Close()
			queue := jobs.NewClient(asynq.RedisClientOpt{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			defer func() {
				if err := queue.Close(); err != nil {
					logger.Warn("Error closing job queue", slog.String("error", err.Error()))
				}
			}()
			container.BatchQueue = queue
			logger.Info("Async batch dispositions enabled", slog.String("redis_addr", cfg.RedisAddr))
		}
	}

	lim, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT, rate limiting disabled", slog.String("error", err.Error()))
		lim = nil
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	validation.InstallGin()

	r := gin.New()

	// Global middleware (logging, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendBaseURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, m, lim)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
