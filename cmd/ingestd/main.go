// Command ingestd polls Nigerian news feeds on a schedule, classifies
// security incidents, persists them, and serves the safety-scoring API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	httpadapter "github.com/couchcryptid/safejourney/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/safejourney/internal/adapter/kafka"
	"github.com/couchcryptid/safejourney/internal/classify"
	"github.com/couchcryptid/safejourney/internal/config"
	"github.com/couchcryptid/safejourney/internal/ingest"
	"github.com/couchcryptid/safejourney/internal/observability"
	"github.com/couchcryptid/safejourney/internal/pipeline"
	"github.com/couchcryptid/safejourney/internal/region"
	"github.com/couchcryptid/safejourney/internal/route"
	"github.com/couchcryptid/safejourney/internal/scoring"
	"github.com/couchcryptid/safejourney/internal/store"
)

func main() {
	godotenv.Load() //nolint:errcheck // a missing .env falls through to real env vars

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	regions := region.Default()
	routes := route.Default()
	classifier := classify.New(regions)
	engine := scoring.New(scoring.DefaultConfig())

	lookback := time.Duration(cfg.LookbackDays) * 24 * time.Hour
	sources := make([]ingest.Source, 0, len(cfg.Feeds))
	for _, feed := range cfg.Feeds {
		sources = append(sources, ingest.NewRSSSource(feed.Name, feed.URL, cfg.FeedTimeout, lookback))
	}

	refresher := ingest.NewRefresher(sources, classifier, logger, metrics)
	cache := ingest.NewCache(cfg.CacheTTL, nil, metrics)
	batches := ingest.NewService(cache, refresher)

	repo, err := store.Open(cfg.SQLitePath)
	if err != nil {
		logger.Error("failed to open incident store", "error", err)
		os.Exit(1)
	}

	// Kafka publishing is feature-flagged; most deployments only need the
	// local store and API.
	var writer *kafkaadapter.Writer
	var publisher pipeline.Publisher
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka publishing enabled", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka publishing disabled")
	}

	p := pipeline.New(refresher, repo, publisher, logger, metrics)

	api := httpadapter.NewAPI(regions, routes, engine, batches, repo, cfg.LookbackDays, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, api, batches, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runCycle := func() {
		if err := p.RunCycle(ctx); err != nil {
			logger.Error("ingest cycle failed", "error", err)
			return
		}
		// Serve the freshly persisted window on the next API lookup.
		cache.Invalidate()
	}

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CronSchedule, runCycle); err != nil {
		logger.Error("invalid ingest schedule", "schedule", cfg.CronSchedule, "error", err)
		os.Exit(1)
	}

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	metrics.IngestRunning.Set(1)
	logger.Info("ingestd started", "schedule", cfg.CronSchedule, "feeds", len(cfg.Feeds))

	// Prime the store before the first scheduled tick.
	go runCycle()
	scheduler.Start()

	<-ctx.Done()
	logger.Info("shutting down")
	metrics.IngestRunning.Set(0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	<-scheduler.Stop().Done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if err := repo.Close(); err != nil {
		logger.Error("incident store close error", "error", err)
	}

	logger.Info("shutdown complete")
}
