package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis"

	"github.com/nekogravitycat/home-services-backend/internal/app"
	"github.com/nekogravitycat/home-services-backend/internal/config"
	"github.com/nekogravitycat/home-services-backend/internal/db"
	"github.com/nekogravitycat/home-services-backend/internal/notification"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/logging"
	"github.com/nekogravitycat/home-services-backend/internal/pkg/storage"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.IsProduction())

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to db")
	}
	defer pool.Close()

	if cfg.DBMigrate {
		if err := db.Migrate(ctx, pool); err != nil {
			logger.WithError(err).Fatal("failed to migrate db")
		}
	}

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		logger.WithError(err).Fatal("failed to init storage")
	}

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		// The cache falls through on errors, so an unreachable redis is not fatal.
		if err := redisClient.Ping().Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, catalog cache degraded")
		}
	}

	var sink notification.Notifier = notification.NewLogNotifier(logger)
	if cfg.RabbitURL != "" {
		amqpNotifier, err := notification.NewAMQPNotifier(cfg.RabbitURL, cfg.NotifyExchange)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to rabbitmq")
		}
		defer amqpNotifier.Close()
		sink = amqpNotifier
	}
	notifier := notification.NewAsync(
		notification.NewBreakerNotifier(sink, cfg.NotifyTimeout, logger),
		cfg.NotifyTimeout,
		logger,
	)

	container, err := app.NewContainer(app.Config{
		IsProduction:    cfg.IsProduction(),
		ProdOrigins:     cfg.Origins(),
		DBPool:          pool,
		JWTSecret:       cfg.JWTSecret,
		JWTTTL:          cfg.JWTAccessTokenTTL,
		BcryptCost:      cfg.BcryptCost,
		Logger:          logger,
		Redis:           redisClient,
		CatalogCacheTTL: cfg.CatalogCacheTTL,
		Notifier:        notifier,
		Storage:         store,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to build application")
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Run server in separate goroutine
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("server running")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	logger.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("server forced to shutdown")
	}

	// Drain in-flight notifications before the broker connection closes.
	if err := notifier.Wait(shutdownCtx); err != nil {
		logger.WithError(err).Warn("pending notifications dropped")
	}

	logger.Info("server exited gracefully")
}
