package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	httpadapter "github.com/couchcryptid/weather-outlook-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/weather-outlook-service/internal/adapter/kafka"
	"github.com/couchcryptid/weather-outlook-service/internal/adapter/weatherapi"
	"github.com/couchcryptid/weather-outlook-service/internal/config"
	"github.com/couchcryptid/weather-outlook-service/internal/domain"
	"github.com/couchcryptid/weather-outlook-service/internal/observability"
	"github.com/couchcryptid/weather-outlook-service/internal/pipeline"
	"github.com/couchcryptid/weather-outlook-service/internal/preferences"
)

// alwaysReady is the readiness checker when the Kafka pipeline is off.
type alwaysReady struct{}

func (alwaysReady) CheckReadiness(context.Context) error { return nil }

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	client := weatherapi.NewClient(cfg.WeatherAPIURL, cfg.WeatherAPITimeout, metrics, logger)
	var (
		source   domain.ProbabilitySource = client
		resolver domain.LocationResolver  = client
	)
	if cfg.WeatherCacheSize > 0 {
		cached := weatherapi.NewCachedClient(client, cfg.WeatherCacheSize, cfg.WeatherCacheTTL, metrics)
		source, resolver = cached, cached
		logger.Info("weather api cache enabled", "cache_size", cfg.WeatherCacheSize, "ttl", cfg.WeatherCacheTTL)
	} else {
		logger.Info("weather api cache disabled")
	}

	transformer := pipeline.NewTransformer(source, resolver, logger)
	prefs := preferences.NewFileStore(cfg.PreferencesPath)
	api := httpadapter.NewAPI(transformer, client, prefs, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  sharedobs.ReadinessChecker = alwaysReady{}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		// Start outlook pipeline.
		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, logger)

	// Start HTTP server.
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

	logger.Info("shutdown complete")
}
