package ingest

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/safejourney/internal/classify"
	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/observability"
)

// ErrAllSourcesFailed reports a refresh cycle where no feed could be fetched.
var ErrAllSourcesFailed = errors.New("all feed sources failed")

// Refresher runs one fetch-classify cycle across all configured sources.
type Refresher struct {
	sources    []Source
	classifier *classify.Classifier
	logger     *slog.Logger
	metrics    *observability.Metrics
	ready      atomic.Bool
}

// NewRefresher creates a Refresher over the given feed sources.
func NewRefresher(sources []Source, classifier *classify.Classifier, logger *slog.Logger, metrics *observability.Metrics) *Refresher {
	return &Refresher{
		sources:    sources,
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once at least one refresh cycle has produced a
// batch, or an error describing why the service is not yet ready.
func (r *Refresher) CheckReadiness(_ context.Context) error {
	if !r.ready.Load() {
		return errors.New("no feed batch has been assembled yet")
	}
	return nil
}

// Refresh fetches every source concurrently, classifies the articles, and
// assembles a sorted batch. A failing source is logged and skipped; the cycle
// fails only when every source fails.
func (r *Refresher) Refresh(ctx context.Context) (domain.Batch, error) {
	start := domain.Clock().Now()

	type fetchResult struct {
		articles []domain.Article
		err      error
	}

	results := make([]fetchResult, len(r.sources))
	var wg sync.WaitGroup
	for i, src := range r.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			articles, err := src.Fetch(ctx)
			results[i] = fetchResult{articles: articles, err: err}
		}(i, src)
	}
	wg.Wait()

	var articles []domain.Article
	failed := 0
	for i, res := range results {
		name := r.sources[i].Name()
		if res.err != nil {
			failed++
			r.metrics.SourceFetches.WithLabelValues(name, "error").Inc()
			r.logger.Warn("feed fetch failed, skipping source", "source", name, "error", res.err)
			continue
		}
		r.metrics.SourceFetches.WithLabelValues(name, "success").Inc()
		r.metrics.ArticlesFetched.WithLabelValues(name).Add(float64(len(res.articles)))
		articles = append(articles, res.articles...)
	}

	if len(r.sources) > 0 && failed == len(r.sources) {
		return domain.Batch{}, ErrAllSourcesFailed
	}

	incidents := make([]domain.Incident, 0, len(articles))
	for _, a := range articles {
		incident, ok := r.classifier.ClassifyArticle(a)
		if !ok {
			r.metrics.ArticlesDropped.Inc()
			continue
		}
		incidents = append(incidents, incident)
	}
	incidents = dedupeByID(incidents)
	r.metrics.IncidentsDrafted.Add(float64(len(incidents)))

	batch := domain.NewBatch(incidents)
	r.metrics.BatchSize.Observe(float64(len(batch.Incidents)))
	r.metrics.RefreshDuration.Observe(domain.Clock().Since(start).Seconds())
	r.ready.Store(true)

	r.logger.Info("batch refreshed",
		"articles", len(articles),
		"incidents", len(batch.Incidents),
		"sources_failed", failed,
	)
	return batch, nil
}

// dedupeByID drops repeat incidents. The same story syndicated across
// outlets classifies to the same ID, so the first occurrence wins.
func dedupeByID(incidents []domain.Incident) []domain.Incident {
	seen := make(map[string]struct{}, len(incidents))
	out := incidents[:0]
	for _, inc := range incidents {
		if _, ok := seen[inc.ID]; ok {
			continue
		}
		seen[inc.ID] = struct{}{}
		out = append(out, inc)
	}
	return out
}
