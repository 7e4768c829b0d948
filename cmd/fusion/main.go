package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/incident-fusion-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/incident-fusion-service/internal/adapter/kafka"
	"github.com/couchcryptid/incident-fusion-service/internal/adapter/mapbox"
	"github.com/couchcryptid/incident-fusion-service/internal/adapter/postgres"
	redisadapter "github.com/couchcryptid/incident-fusion-service/internal/adapter/redis"
	"github.com/couchcryptid/incident-fusion-service/internal/config"
	"github.com/couchcryptid/incident-fusion-service/internal/domain"
	"github.com/couchcryptid/incident-fusion-service/internal/observability"
	"github.com/couchcryptid/incident-fusion-service/internal/pipeline"
	"github.com/couchcryptid/incident-fusion-service/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Initialize geocoder (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	catalog, err := source.LoadCatalog(cfg.FeedsFile)
	if err != nil {
		logger.Error("failed to load feed catalog", "error", err, "path", cfg.FeedsFile)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := postgres.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("failed to create schema", "error", err)
		store.Close()
		os.Exit(1)
	}

	adapters := source.All(source.Deps{
		Fetcher:         source.NewFetcher(cfg.FetchTimeout, cfg.UserAgent),
		Catalog:         catalog,
		Geocoder:        geocoder,
		Logger:          logger,
		FeedConcurrency: cfg.FeedConcurrency,
	})
	sources := make([]pipeline.Source, len(adapters))
	for i, a := range adapters {
		sources[i] = a
	}

	var opts []pipeline.Option
	var publisher *kafkaadapter.Publisher
	if cfg.PublishEnabled() {
		publisher = kafkaadapter.NewPublisher(cfg, logger)
		opts = append(opts, pipeline.WithPublisher(publisher))
		logger.Info("kafka publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaIncidentTopic)
	}
	var mirror *redisadapter.HealthMirror
	if cfg.MirrorEnabled() {
		mirror = redisadapter.NewHealthMirror(redisadapter.NewClient(cfg), cfg.RedisKeyPrefix, logger)
		opts = append(opts, pipeline.WithHealthStore(mirror))
		logger.Info("redis health mirror enabled", "addr", cfg.RedisAddr, "prefix", cfg.RedisKeyPrefix)
	}

	orchestrator := pipeline.NewOrchestrator(sources, cfg.SourceTimeout, logger, metrics)
	p := pipeline.New(orchestrator, store, cfg.IngestInterval, logger, metrics, opts...)
	if err := p.Restore(ctx); err != nil {
		logger.Warn("could not restore mirrored source health", "error", err)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, p, metrics, logger)

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ingestion pipeline.
	pipelineDone := make(chan struct{})
	go func() {
		defer close(pipelineDone)
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
	select {
	case <-pipelineDone:
	case <-shutdownCtx.Done():
		logger.Warn("pipeline did not stop before shutdown timeout")
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}
	if mirror != nil {
		if err := mirror.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}
	if err := store.Close(); err != nil {
		logger.Error("postgres close error", "error", err)
	}

	logger.Info("shutdown complete")
}
