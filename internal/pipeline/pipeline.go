// Package pipeline orchestrates the periodic ingest cycle: refresh feeds,
// persist classified incidents, and publish them downstream.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/observability"
)

// Refresher assembles a fresh incident batch from the feed sources.
type Refresher interface {
	Refresh(ctx context.Context) (domain.Batch, error)
}

// Saver persists incidents, skipping ones already stored.
type Saver interface {
	SaveIncidents(ctx context.Context, incidents []domain.Incident) (int, error)
}

// Publisher emits incidents to downstream consumers.
type Publisher interface {
	PublishIncidents(ctx context.Context, incidents []domain.Incident) error
}

// Pipeline runs the refresh-persist-publish cycle.
type Pipeline struct {
	refresher Refresher
	saver     Saver
	publisher Publisher // nil when publishing is disabled
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline. publisher may be nil to skip the publish stage.
func New(r Refresher, s Saver, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		refresher: r,
		saver:     s,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// RunCycle executes one complete ingest cycle. Incidents without a resolved
// region are kept in the batch for API consumers but never persisted or
// published; region-level scoring cannot use them.
func (p *Pipeline) RunCycle(ctx context.Context) error {
	start := time.Now()

	batch, err := p.refresher.Refresh(ctx)
	if err != nil {
		return err
	}

	located := make([]domain.Incident, 0, len(batch.Incidents))
	for _, inc := range batch.Incidents {
		if inc.Region != "" {
			located = append(located, inc)
		}
	}

	stored, err := p.saver.SaveIncidents(ctx, located)
	if err != nil {
		p.metrics.StoreErrors.Inc()
		return err
	}
	p.metrics.IncidentsStored.Add(float64(stored))

	if p.publisher != nil && len(located) > 0 {
		// Republished duplicates share a key with the original message, so
		// consumers can compact them.
		if err := p.publisher.PublishIncidents(ctx, located); err != nil {
			return err
		}
		p.metrics.IncidentsPublished.Add(float64(len(located)))
	}

	p.logger.Info("ingest cycle complete",
		"incidents", len(batch.Incidents),
		"located", len(located),
		"newly_stored", stored,
		"duration", time.Since(start),
	)
	return nil
}
