package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the ingestion service.
type Metrics struct {
	IncidentsStored    prometheus.Counter
	IncidentsPublished prometheus.Counter
	StoreErrors        prometheus.Counter
	IngestRunning      prometheus.Gauge

	// Refresh cycle metrics.
	BatchSize       prometheus.Histogram
	RefreshDuration prometheus.Histogram

	// Feed and classification metrics.
	SourceFetches    *prometheus.CounterVec // labels: source, outcome={success,error}
	ArticlesFetched  *prometheus.CounterVec // labels: source
	IncidentsDrafted prometheus.Counter
	ArticlesDropped  prometheus.Counter
	BatchCache       *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		IncidentsStored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "incidents_stored_total",
			Help:      "Total incidents persisted to the repository.",
		}),
		IncidentsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "incidents_published_total",
			Help:      "Total incidents written to the sink topic.",
		}),
		StoreErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "store_errors_total",
			Help:      "Total failed repository writes.",
		}),
		IngestRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "safejourney",
			Name:      "ingest_running",
			Help:      "1 when the ingestion loop is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safejourney",
			Name:      "batch_size",
			Help:      "Number of classified incidents per refreshed batch.",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100, 200},
		}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "safejourney",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete multi-source refresh cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 30},
		}),
		SourceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "source_fetches_total",
			Help:      "Feed fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		ArticlesFetched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "articles_fetched_total",
			Help:      "Articles returned by each feed source.",
		}, []string{"source"}),
		IncidentsDrafted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "incidents_drafted_total",
			Help:      "Articles classified as security incidents.",
		}),
		ArticlesDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "articles_dropped_total",
			Help:      "Articles discarded as not security-related.",
		}),
		BatchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "safejourney",
			Name:      "batch_cache_total",
			Help:      "Batch cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.IncidentsStored,
		m.IncidentsPublished,
		m.StoreErrors,
		m.IngestRunning,
		m.BatchSize,
		m.RefreshDuration,
		m.SourceFetches,
		m.ArticlesFetched,
		m.IncidentsDrafted,
		m.ArticlesDropped,
		m.BatchCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		IncidentsStored:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safejourney", Name: "incidents_stored_total"}),
		IncidentsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safejourney", Name: "incidents_published_total"}),
		StoreErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safejourney", Name: "store_errors_total"}),
		IngestRunning:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "safejourney", Name: "ingest_running"}),
		BatchSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "safejourney", Name: "batch_size"}),
		RefreshDuration:    prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "safejourney", Name: "refresh_duration_seconds"}),
		SourceFetches:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safejourney", Name: "source_fetches_total"}, []string{"source", "outcome"}),
		ArticlesFetched:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safejourney", Name: "articles_fetched_total"}, []string{"source"}),
		IncidentsDrafted:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safejourney", Name: "incidents_drafted_total"}),
		ArticlesDropped:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "safejourney", Name: "articles_dropped_total"}),
		BatchCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "safejourney", Name: "batch_cache_total"}, []string{"result"}),
	}
}
