package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	cacheport "github.com/ama3it/image-workers-backend/internal/domain/port/cache"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/usecase/executor"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/cache"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/database"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/logger"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/queue"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/repository"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/storage"
	timeProvider "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/time"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/transform"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production, coreport.ParseLogLevel(cfg.Logger.Level))
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()

	// Database
	dbConfig := &database.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Username:        cfg.Database.Username,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Database,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		QueryTimeout:    cfg.Database.QueryTimeout,
		LogLevel:        cfg.Database.LogLevel,
		RetryAttempts:   cfg.Database.RetryAttempts,
		RetryDelay:      cfg.Database.RetryDelay,
	}
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
	defer dbManager.Close()

	jobRepo := repository.NewJobRepository(dbManager.DB(), tp, appLogger)

	objectStore := storage.NewSupabaseStore(storage.Config{
		URL:            cfg.Storage.URL,
		ServiceRoleKey: cfg.Storage.ServiceRoleKey,
		Bucket:         cfg.Storage.Bucket,
		RequestTimeout: cfg.Storage.RequestTimeout,
	}, appLogger)

	var appCache cacheport.Cache = cache.NewNoopCache()
	if cfg.Redis.Enabled {
		redisCache := cache.NewRedisCache(cache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, appLogger)
		if err := redisCache.Ping(context.Background()); err != nil {
			appLogger.Warn("Redis unavailable, running without cache", map[string]any{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			})
		} else {
			appCache = redisCache
			defer redisCache.Close()
		}
	}

	executorService := executor.NewService(
		jobRepo,
		objectStore,
		transform.NewImagingTransformer(),
		appCache,
		tp,
		appLogger,
		executor.Config{
			MaxAttempts: cfg.Worker.MaxAttempts,
			RetryDelay:  cfg.Worker.RetryDelay,
			TaskTimeout: cfg.Worker.TaskTimeout,
		},
	)

	consumer := queue.NewConsumer(queue.Config{
		Brokers: cfg.Queue.Brokers,
		Topic:   cfg.Queue.Topic,
		GroupID: cfg.Queue.GroupID,
	}, appLogger)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())

	// Stop consuming on SIGINT/SIGTERM; the in-flight task finishes first
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		appLogger.Info("Shutting down worker...", nil)
		cancel()
	}()

	appLogger.Info("Starting worker", map[string]any{
		"topic":        cfg.Queue.Topic,
		"group_id":     cfg.Queue.GroupID,
		"max_attempts": cfg.Worker.MaxAttempts,
		"env":          cfg.Environment,
	})

	if err := consumer.Run(ctx, executorService.Execute); err != nil {
		appLogger.Error("Worker stopped with error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	appLogger.Info("Worker exited gracefully", nil)
}
