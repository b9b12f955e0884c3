package ingest

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/observability"
)

// Result is a batch lookup outcome: the batch itself, whether it came from
// the cache, and the instant it was assembled.
type Result struct {
	Batch  domain.Batch
	Cached bool
	AsOf   time.Time
}

// Cache memoizes the most recent batch for a freshness window. There is a
// single slot: every reader shares the same batch until it expires.
type Cache struct {
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics

	mu      sync.Mutex
	batch   domain.Batch
	asOf    time.Time
	primed  bool
}

// NewCache creates a Cache with the given freshness window. A nil clock
// selects the real one.
func NewCache(ttl time.Duration, clk clockwork.Clock, metrics *observability.Metrics) *Cache {
	if clk == nil {
		clk = clockwork.NewRealClock()
	}
	return &Cache{ttl: ttl, clock: clk, metrics: metrics}
}

// GetOrRefresh returns the cached batch when it is still fresh, otherwise
// invokes refresh and stores its result. The lock is not held across the
// refresh call, so concurrent expirations may refresh twice; the last writer
// wins and both callers get a valid batch.
func (c *Cache) GetOrRefresh(ctx context.Context, refresh func(context.Context) (domain.Batch, error)) (Result, error) {
	now := c.clock.Now()

	c.mu.Lock()
	if c.primed && now.Sub(c.asOf) < c.ttl {
		res := Result{Batch: c.batch, Cached: true, AsOf: c.asOf}
		c.mu.Unlock()
		c.metrics.BatchCache.WithLabelValues("hit").Inc()
		return res, nil
	}
	c.mu.Unlock()

	c.metrics.BatchCache.WithLabelValues("miss").Inc()
	batch, err := refresh(ctx)
	if err != nil {
		return Result{}, err
	}

	c.mu.Lock()
	c.batch = batch
	c.asOf = now
	c.primed = true
	c.mu.Unlock()

	return Result{Batch: batch, Cached: false, AsOf: now}, nil
}

// Invalidate drops the cached batch so the next lookup refreshes.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.primed = false
	c.mu.Unlock()
}
