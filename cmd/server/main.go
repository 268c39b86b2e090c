package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/21haoxingxiu/core/internal/config"
	"github.com/21haoxingxiu/core/internal/telemetry"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.New()

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		log.Fatalf("init telemetry: %v", err)
	}

	app, err := InitializeApp(cfg)
	if err != nil {
		log.Fatalf("init app: %v", err)
	}
	logger := app.Logger()
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", telemetry.Version),
		zap.Bool("tracing", cfg.OTLPEndpoint != ""),
		zap.Bool("mysql", cfg.MySQLDSN != ""),
		zap.Bool("redis", cfg.RedisURL != ""),
		zap.Bool("rabbitmq", cfg.RabbitMQURL != ""),
	)

	runErr := make(chan error, 1)
	go func() { runErr <- app.Run(ctx) }()

	select {
	case <-ctx.Done():
	case err := <-runErr:
		if err != nil {
			logger.Error("app stopped", zap.Error(err))
		}
	}
	stop()

	// The signal context is already cancelled; shutdown gets its own budget.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}
}
