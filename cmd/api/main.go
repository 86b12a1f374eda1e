package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"todoboard/internal/adapter/database"
	adapterhttp "todoboard/internal/adapter/http"
	"todoboard/internal/adapter/telemetry"
	"todoboard/pkg/config"
	"todoboard/pkg/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()

	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	logger, err := logging.New(cfg.ServiceName, cfg.LokiURL)

	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}

	defer logger.Sync()

	tel, err := telemetry.Init(cfg)

	if err != nil {
		log.Fatal("Failed to initialize telemetry: ", err)
	}

	defer tel.Shutdown(context.Background())

	metrics := telemetry.NewAppMetrics(tel.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	db, err := database.Open(cfg.Database)

	if err != nil {
		log.Fatal("Failed to open database: ", err)
	}

	defer db.Close()

	if err := adapterhttp.StartServer(ctx, cfg, db, logger, metrics); err != nil {
		logger.Error(ctx, "Server stopped with error", zap.Error(err))
		return
	}

	logger.Info(ctx, "Shutting down gracefully")
}
