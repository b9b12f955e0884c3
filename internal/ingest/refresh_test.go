package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/safejourney/internal/classify"
	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/observability"
	"github.com/couchcryptid/safejourney/internal/region"
)

type stubSource struct {
	name     string
	articles []domain.Article
	err      error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context) ([]domain.Article, error) {
	return s.articles, s.err
}

func testArticle(title string, published time.Time) domain.Article {
	return domain.Article{
		Title:       title,
		Summary:     "Details are still emerging from the scene.",
		Link:        "https://news.example/" + title,
		Source:      "stub",
		PublishedAt: published,
	}
}

func newTestRefresher(t *testing.T, sources ...Source) *Refresher {
	t.Helper()
	classifier := classify.New(region.Default())
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRefresher(sources, classifier, logger, observability.NewMetricsForTesting())
}

func TestRefresher_Refresh(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	src := &stubSource{name: "punch", articles: []domain.Article{
		testArticle("Gunmen kidnap 12 travellers along Kaduna highway", now.Add(-2*time.Hour)),
		testArticle("Governor commissions new water project in Enugu", now.Add(-1*time.Hour)),
	}}

	r := newTestRefresher(t, src)

	batch, err := r.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Incidents, 1)
	assert.Equal(t, domain.CategoryKidnapping, batch.Incidents[0].Category)
	assert.Equal(t, "Kaduna", batch.Incidents[0].Region)
	assert.Equal(t, 1, batch.Stats.Total)
}

func TestRefresher_Refresh_SkipsFailingSource(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	healthy := &stubSource{name: "vanguard", articles: []domain.Article{
		testArticle("Bandits attack village in Zamfara, 3 killed", now.Add(-3*time.Hour)),
	}}
	broken := &stubSource{name: "punch", err: errors.New("connection refused")}

	r := newTestRefresher(t, healthy, broken)

	batch, err := r.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Incidents, 1)
	assert.Equal(t, domain.CategoryBanditry, batch.Incidents[0].Category)
	assert.Equal(t, 3, batch.Incidents[0].Killed)
}

func TestRefresher_Refresh_AllSourcesFailed(t *testing.T) {
	r := newTestRefresher(t,
		&stubSource{name: "a", err: errors.New("timeout")},
		&stubSource{name: "b", err: errors.New("dns failure")},
	)

	_, err := r.Refresh(context.Background())
	require.ErrorIs(t, err, ErrAllSourcesFailed)
}

func TestRefresher_Refresh_DeduplicatesSyndicatedStories(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	published := now.Add(-2 * time.Hour)
	story := "Terrorists bomb market in Borno, several dead"
	a := &stubSource{name: "punch", articles: []domain.Article{testArticle(story, published)}}
	b := &stubSource{name: "vanguard", articles: []domain.Article{testArticle(story, published)}}

	r := newTestRefresher(t, a, b)

	batch, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Len(t, batch.Incidents, 1)
}

func TestRefresher_Refresh_SortsNewestFirst(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	domain.SetClock(clockwork.NewFakeClockAt(now))
	t.Cleanup(func() { domain.SetClock(nil) })

	src := &stubSource{name: "punch", articles: []domain.Article{
		testArticle("Bandits raid community in Katsina", now.Add(-48*time.Hour)),
		testArticle("Gunmen kidnap schoolchildren in Niger", now.Add(-1*time.Hour)),
	}}

	r := newTestRefresher(t, src)

	batch, err := r.Refresh(context.Background())
	require.NoError(t, err)

	require.Len(t, batch.Incidents, 2)
	assert.True(t, batch.Incidents[0].OccurredAt.After(batch.Incidents[1].OccurredAt))
}

func TestRefresher_CheckReadiness(t *testing.T) {
	r := newTestRefresher(t, &stubSource{name: "punch"})

	require.Error(t, r.CheckReadiness(context.Background()))

	_, err := r.Refresh(context.Background())
	require.NoError(t, err)

	assert.NoError(t, r.CheckReadiness(context.Background()))
}
