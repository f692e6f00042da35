package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/harborline/payment-orchestrator/internal/config"
	"github.com/harborline/payment-orchestrator/internal/core/service"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/cache"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/gateway"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/notify"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/persistence"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/persistence/postgres"
	"github.com/harborline/payment-orchestrator/internal/infrastructure/session"
	"github.com/harborline/payment-orchestrator/internal/interfaces/rest/handlers"
	"github.com/harborline/payment-orchestrator/internal/interfaces/rest/middleware"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting payment orchestrator",
		"port", cfg.Server.Port,
		"log_level", cfg.Logger.Level,
		"gateway_demo_mode", cfg.Gateway.DemoMode,
	)

	ctx := context.Background()
	db, err := persistence.Connect(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	orderRepo := postgres.NewOrderRepository(db.Pool)
	eventRepo := postgres.NewEventRepository(db.Pool)

	invalidator := cache.NewInvalidator(redisClient, logger)
	sessionGuard := session.NewGuard(redisClient, logger)

	notifier := notify.NewNotifier(cfg.Kafka.BrokerList(), cfg.Kafka.RefusedTopic, logger)
	defer notifier.Close()

	gatewayClient := gateway.NewClient(cfg.Gateway, logger)
	storeSettings := config.NewStoreSettings(cfg.Store)

	modService := service.NewModificationService(
		gatewayClient, orderRepo, eventRepo, sessionGuard, invalidator, notifier, storeSettings, logger,
	)
	authorizeService := service.NewAuthorizeService(
		gatewayClient, orderRepo, eventRepo, sessionGuard, notifier, storeSettings, logger,
	)
	captureService := service.NewCaptureService(modService, orderRepo, eventRepo, logger)
	refundService := service.NewRefundService(modService, orderRepo, eventRepo, storeSettings, logger)
	cancelService := service.NewCancelService(modService, gatewayClient, orderRepo, eventRepo, storeSettings, logger)

	h := handlers.NewHandlers(authorizeService, captureService, refundService, cancelService)

	mux := http.NewServeMux()
	h.Register(mux)

	handler := middleware.Recovery(logger)(mux)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Timeout(cfg.Server.ReadTimeout)(handler)

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
