package ingest

import "context"

// Service couples the refresher and the batch cache for read-path consumers:
// a snapshot serves from the cache and only touches the feeds when stale.
type Service struct {
	cache     *Cache
	refresher *Refresher
}

// NewService binds a cache to a refresher.
func NewService(cache *Cache, refresher *Refresher) *Service {
	return &Service{cache: cache, refresher: refresher}
}

// Snapshot returns the current batch, refreshing the feeds if the cached one
// has expired.
func (s *Service) Snapshot(ctx context.Context) (Result, error) {
	return s.cache.GetOrRefresh(ctx, s.refresher.Refresh)
}

// CheckReadiness reports whether any batch has been assembled yet.
func (s *Service) CheckReadiness(ctx context.Context) error {
	return s.refresher.CheckReadiness(ctx)
}
