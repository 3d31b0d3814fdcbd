package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/adapter/postgres"
	redis_adapter "github.com/user/notice-crawler/internal/adapter/redis"
	"github.com/user/notice-crawler/internal/bootstrap"
	"github.com/user/notice-crawler/internal/delivery/http/handler"
	"github.com/user/notice-crawler/internal/delivery/http/router"
	"github.com/user/notice-crawler/internal/usecase"
	"github.com/user/notice-crawler/pkg/config"
	"github.com/user/notice-crawler/pkg/logger"
	"github.com/user/notice-crawler/pkg/metrics"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Could not load config", zap.Error(err))
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		zap.NewExample().Fatal("Could not build logger", zap.Error(err))
	}
	defer log.Sync()

	// --- Metrics ---
	m := metrics.New(prometheus.DefaultRegisterer)

	// --- Database Connections ---
	ctx := context.Background()

	// PostgreSQL
	dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Fatal("Unable to connect to database", zap.Error(err))
	}
	defer dbpool.Close()
	log.Info("PostgreSQL connection pool established")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("Unable to connect to Redis", zap.Error(err))
	}
	log.Info("Redis connection established")

	// --- Repositories ---
	notificationRepo := postgres.NewNotificationRepo(dbpool)
	failureRepo := postgres.NewFailureRepo(dbpool)
	statusRepo := redis_adapter.NewJobStatusRepo(rdb, cfg.JobStatusTTLDuration())

	// --- Use Cases ---
	fetcher := bootstrap.NewFetcher(cfg, log)
	crawler := bootstrap.NewCrawler(cfg, fetcher, log, m)
	processor := usecase.NewNotificationProcessor(notificationRepo, bootstrap.NewSummarizer(cfg, log, m), log, m)
	manager := usecase.NewScrapeManager(crawler, processor, statusRepo, failureRepo, usecase.ScrapeConfig{
		MaxConcurrentJobs: cfg.MaxConcurrentJobs,
		JobTimeout:        cfg.JobTimeoutDuration(),
		DefaultMaxDepth:   cfg.DefaultMaxDepth,
		DefaultMaxPages:   cfg.DefaultMaxPages,
	}, log, m)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(manager, map[string]handler.HealthCheck{
		"postgres": dbpool.Ping,
		"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}, log)
	httpRouter := router.New(apiHandler, log, m, prometheus.DefaultGatherer)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      httpRouter,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Graceful Shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("port", cfg.ServerPort), zap.String("fetch_backend", cfg.FetchBackend))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	// Running jobs are cancelled once the deadline passes.
	if err := manager.Shutdown(shutdownCtx); err != nil {
		log.Warn("Scrape jobs cancelled during shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}
