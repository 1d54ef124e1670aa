package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	cacheport "github.com/ama3it/image-workers-backend/internal/domain/port/cache"
	coreport "github.com/ama3it/image-workers-backend/internal/domain/port/core"
	"github.com/ama3it/image-workers-backend/internal/domain/usecase/admission"
	imageUseCase "github.com/ama3it/image-workers-backend/internal/domain/usecase/image"
	walletUseCase "github.com/ama3it/image-workers-backend/internal/domain/usecase/wallet"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/handler"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/api/routes"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/cache"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/database"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/logger"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/payment"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/queue"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/repository"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/storage"
	timeProvider "github.com/ama3it/image-workers-backend/internal/infrastructure/adapter/time"
	"github.com/ama3it/image-workers-backend/internal/infrastructure/config"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
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

	if err := database.Migrate(dbManager.DB(), appLogger); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// Repositories
	walletRepo := repository.NewWalletRepository(dbManager.DB(), tp, appLogger)
	transactionRepo := repository.NewTransactionRepository(dbManager.DB(), appLogger)
	imageRepo := repository.NewImageRepository(dbManager.DB(), tp, appLogger)
	jobRepo := repository.NewJobRepository(dbManager.DB(), tp, appLogger)
	uow := dbManager.CreateUnitOfWork()

	// External collaborators
	objectStore := storage.NewSupabaseStore(storage.Config{
		URL:            cfg.Storage.URL,
		ServiceRoleKey: cfg.Storage.ServiceRoleKey,
		Bucket:         cfg.Storage.Bucket,
		RequestTimeout: cfg.Storage.RequestTimeout,
	}, appLogger)

	paymentProvider := payment.NewRazorpayProvider(payment.Config{
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
	}, appLogger)

	producer := queue.NewProducer(queue.Config{
		Brokers: cfg.Queue.Brokers,
		Topic:   cfg.Queue.Topic,
	}, appLogger)
	defer producer.Close()

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

	// Use cases
	walletService := walletUseCase.NewService(walletRepo, transactionRepo, paymentProvider, appCache, tp, appLogger)
	admissionService := admission.NewService(imageRepo, jobRepo, walletService, objectStore, producer, tp, appLogger)
	imageService := imageUseCase.NewService(imageRepo, jobRepo, uow, objectStore, appCache, tp, appLogger)

	// API handlers
	walletHandler := handler.NewWalletHandler(walletService, cfg.Payment.Currency, appLogger)
	imageHandler := handler.NewImageHandler(admissionService, imageService, cfg.Server.MaxUploadBytes, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, walletHandler, imageHandler, cfg.Auth.JWTSecret, appLogger)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{"error": err.Error()})
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Database.Host == "" {
		missingConfigs = append(missingConfigs, "database.host (or IW_DB_HOST)")
	}
	if cfg.Database.Username == "" {
		missingConfigs = append(missingConfigs, "database.username (or IW_DB_USERNAME)")
	}
	if cfg.Database.Database == "" {
		missingConfigs = append(missingConfigs, "database.database (or IW_DB_NAME)")
	}
	if cfg.Storage.URL == "" {
		missingConfigs = append(missingConfigs, "storage.url (or IW_SUPABASE_URL)")
	}
	if cfg.Storage.ServiceRoleKey == "" {
		missingConfigs = append(missingConfigs, "storage.serviceRoleKey (or IW_SUPABASE_SERVICE_ROLE_KEY)")
	}
	if cfg.Payment.KeyID == "" || cfg.Payment.KeySecret == "" {
		missingConfigs = append(missingConfigs, "payment credentials (IW_RAZORPAY_KEY_ID / IW_RAZORPAY_KEY_SECRET)")
	}
	if len(cfg.Queue.Brokers) == 0 || cfg.Queue.Topic == "" {
		missingConfigs = append(missingConfigs, "queue.brokers / queue.topic")
	}
	if cfg.Auth.JWTSecret == "" {
		missingConfigs = append(missingConfigs, "auth.jwtSecret (or IW_JWT_SECRET)")
	}

	if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}
	return nil
}
