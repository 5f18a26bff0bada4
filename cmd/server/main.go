package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/urbanserve/payments/internal/adapters/postgres"
	"github.com/urbanserve/payments/internal/adapters/secrets"
	"github.com/urbanserve/payments/internal/config"
	"github.com/urbanserve/payments/internal/gateway"
	paymentHandler "github.com/urbanserve/payments/internal/handlers/payment"
	paymentService "github.com/urbanserve/payments/internal/services/payment"
	"github.com/urbanserve/payments/pkg/middleware"
	"github.com/urbanserve/payments/pkg/observability"
)

func main() {
	logger := initLogger()
	defer logger.Sync()

	logger.Info("Starting payments service",
		zap.String("version", "0.1.0"),
	)

	cfg, err := config.LoadFromEnv()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Resolve gateway secret material before anything else touches it
	secretManager, err := secrets.New(ctx, secrets.Config{
		Backend: cfg.Secrets.Backend,
		AWS: secrets.AWSConfig{
			Region:   cfg.Secrets.AWSRegion,
			Profile:  cfg.Secrets.AWSProfile,
			Endpoint: cfg.Secrets.AWSEndpoint,
		},
		Vault: secrets.VaultConfig{
			Address:   cfg.Secrets.VaultAddress,
			Token:     cfg.Secrets.VaultToken,
			Namespace: cfg.Secrets.VaultNamespace,
			MountPath: cfg.Secrets.VaultMountPath,
		},
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize secrets backend", zap.Error(err))
	}

	workingKey, err := secretManager.GetSecret(ctx, cfg.Gateway.WorkingKeyPath)
	if err != nil {
		logger.Fatal("Failed to load gateway working key", zap.Error(err))
	}
	accessCode, err := secretManager.GetSecret(ctx, cfg.Gateway.AccessCodePath)
	if err != nil {
		logger.Fatal("Failed to load gateway access code", zap.Error(err))
	}

	dbPool, err := postgres.NewPool(ctx, postgres.Config{
		DatabaseURL: cfg.Database.URL,
		MaxConns:    cfg.Database.MaxConns,
		MinConns:    cfg.Database.MinConns,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbPool.Close()

	// Wire the payment lifecycle
	merchantCfg := gateway.MerchantConfig{
		MerchantID:  cfg.Gateway.MerchantID,
		AccessCode:  accessCode.Value,
		GatewayURL:  cfg.Gateway.GatewayURL,
		RedirectURL: cfg.Gateway.RedirectURL,
		CancelURL:   cfg.Gateway.CancelURL,
	}

	orderStore := postgres.NewOrderStore(dbPool)
	codec := gateway.NewCodec(workingKey.Value)
	service := paymentService.NewService(orderStore, codec, merchantCfg, logger)

	responder := paymentHandler.NewRedirectResponder(paymentHandler.RedirectConfig{
		SuccessURL:   cfg.Gateway.SuccessPageURL,
		FailureURL:   cfg.Gateway.FailurePageURL,
		CancelledURL: cfg.Gateway.CancelledPageURL,
	}, logger)

	handler := paymentHandler.NewHandler(service, responder, logger)

	mux := http.NewServeMux()
	handler.Register(mux)

	rateLimiter := middleware.NewRateLimiter(cfg.Server.RateLimitPerSecond, cfg.Server.RateLimitBurst)
	defer rateLimiter.Shutdown()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      observability.HTTPMiddleware(rateLimiter.Middleware(mux)),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	healthChecker := observability.NewHealthChecker(dbPool)
	metricsServer := observability.StartMetricsServer(
		fmt.Sprintf(":%d", cfg.Server.MetricsPort), healthChecker, logger)

	go func() {
		logger.Info("HTTP server listening",
			zap.String("address", httpServer.Addr),
		)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve HTTP", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down servers...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}
	if err := observability.ShutdownMetricsServer(metricsServer); err != nil {
		logger.Error("Metrics server shutdown error", zap.Error(err))
	}

	logger.Info("Servers stopped")
}

func initLogger() *zap.Logger {
	if os.Getenv("ENVIRONMENT") == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ := zapCfg.Build()
		return logger
	}

	logger, _ := zap.NewDevelopment()
	return logger
}
