// geomapsd serves the location lookup HTTP API and, when enabled, the
// Kafka enrichment pipeline.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fernwhistle/geomaps"
	"github.com/fernwhistle/geomaps/geoapify"
	"github.com/fernwhistle/geomaps/internal/adapter/httpadapter"
	kafkaadapter "github.com/fernwhistle/geomaps/internal/adapter/kafka"
	"github.com/fernwhistle/geomaps/internal/config"
	"github.com/fernwhistle/geomaps/internal/observability"
	"github.com/fernwhistle/geomaps/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	adapter, err := geoapify.New(geoapify.Config{
		APIKey:  cfg.GeoapifyAPIKey,
		BaseURL: cfg.GeoapifyBaseURL,
		Timeout: cfg.GeoapifyTimeout,
		Logger:  logger,
	})
	if err != nil {
		slog.Error("failed to build geoapify provider", "error", err)
		os.Exit(1)
	}

	provider := observability.NewInstrumentedProvider(adapter, metrics, logger)
	client, err := geomaps.NewClient(provider)
	if err != nil {
		slog.Error("failed to build client", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var ready httpadapter.ReadinessChecker
	var reader *kafkaadapter.Reader
	var writer *kafkaadapter.Writer

	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(provider)

		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		logger.Info("enrichment pipeline enabled",
			"source_topic", cfg.KafkaSourceTopic,
			"sink_topic", cfg.KafkaSinkTopic,
			"batch_size", cfg.BatchSize,
		)
	} else {
		logger.Info("enrichment pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, client, ready, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := client.Close(); err != nil {
		logger.Error("provider close error", "error", err)
	}

	logger.Info("shutdown complete")
}
