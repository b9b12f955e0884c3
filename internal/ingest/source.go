// Package ingest pulls articles from news feeds, classifies them into
// incidents, and memoizes the most recent batch in a single-slot cache.
package ingest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/couchcryptid/safejourney/internal/domain"
)

// Source supplies raw articles from one news outlet.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Article, error)
}

// RSSSource reads a single RSS/Atom feed. Items older than the lookback
// window are dropped at fetch time so downstream never re-classifies stale
// news.
type RSSSource struct {
	name     string
	url      string
	lookback time.Duration
	parser   *gofeed.Parser
}

// NewRSSSource builds a feed source with a bounded HTTP timeout.
func NewRSSSource(name, url string, timeout, lookback time.Duration) *RSSSource {
	parser := gofeed.NewParser()
	parser.UserAgent = "SafeJourney/1.0"
	parser.Client = &http.Client{Timeout: timeout}
	return &RSSSource{
		name:     name,
		url:      url,
		lookback: lookback,
		parser:   parser,
	}
}

// Name returns the outlet name used as incident provenance.
func (s *RSSSource) Name() string { return s.name }

// Fetch downloads and parses the feed, returning recent items as articles.
func (s *RSSSource) Fetch(ctx context.Context) ([]domain.Article, error) {
	feed, err := s.parser.ParseURLWithContext(s.url, ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s feed: %w", s.name, err)
	}

	cutoff := domain.Clock().Now().Add(-s.lookback)
	var articles []domain.Article
	for _, item := range feed.Items {
		if item.PublishedParsed == nil || item.PublishedParsed.Before(cutoff) {
			continue
		}
		articles = append(articles, domain.Article{
			Title:       item.Title,
			Summary:     item.Description,
			Link:        item.Link,
			Source:      s.name,
			PublishedAt: *item.PublishedParsed,
		})
	}
	return articles, nil
}
