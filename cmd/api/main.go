package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	httpserver "taskapp/internal/adapter/http"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := config.NewAppLogger("taskapp", cfg.IsProduction())

	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	defer logger.Sync()

	telemetry, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    "taskapp",
		ServiceVersion: "1.0.0",
		Environment:    cfg.Environment,
		MetricsPort:    cfg.MetricsPort,
		OTLPEndpoint:   cfg.OTLPEndpoint,
	})

	if err != nil {
		log.Fatal("Failed to initialize telemetry:", err)
	}

	defer telemetry.Shutdown(context.Background())

	metrics := tracing.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	if err := httpserver.StartServerWithConfig(ctx, metrics, logger, cfg); err != nil {
		log.Fatal("Server failed:", err)
	}

	logger.Logger.Info("Shut down gracefully")
}
