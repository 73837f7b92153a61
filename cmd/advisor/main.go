// Command advisor runs the flight-weather assessment service: it consumes
// forecast requests from Kafka, scores them with the risk engine, and
// produces assessments to the sink topic, alongside an HTTP surface for
// health, metrics, and synchronous assessment.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/flightwx/uav-wx-advisor/internal/adapter/http"
	kafkaadapter "github.com/flightwx/uav-wx-advisor/internal/adapter/kafka"
	"github.com/flightwx/uav-wx-advisor/internal/adapter/openmeteo"
	"github.com/flightwx/uav-wx-advisor/internal/config"
	"github.com/flightwx/uav-wx-advisor/internal/domain"
	"github.com/flightwx/uav-wx-advisor/internal/observability"
	"github.com/flightwx/uav-wx-advisor/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	opts := domain.AssessOptions{Window: cfg.WindowConfig()}

	// Initialize the pull-mode forecast provider (feature-flagged via
	// UAVWX_PROVIDER_ENABLED).
	var provider pipeline.ForecastProvider
	if cfg.ProviderEnabled {
		client := openmeteo.NewClient(cfg, metrics, logger)
		provider = openmeteo.NewCachedProvider(client, cfg.ProviderCacheSize, metrics)
		metrics.ProviderEnabled.Set(1)
		logger.Info("forecast provider enabled", "cache_size", cfg.ProviderCacheSize, "timeout", cfg.ProviderTimeout)
	} else {
		logger.Info("forecast provider disabled, requests must embed hours")
	}

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	assessor := pipeline.NewAssessor(provider, opts, logger, metrics)

	p := pipeline.New(reader, assessor, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, opts, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start assessment pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
