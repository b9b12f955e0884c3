package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/safejourney/internal/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func incidentAt(id, title, regionName string, category domain.Category, occurred time.Time) domain.Incident {
	return domain.Incident{
		ID:          id,
		Category:    category,
		Region:      regionName,
		Title:       title,
		Summary:     "summary of " + title,
		OccurredAt:  occurred,
		Source:      "punch",
		SourceURL:   "https://news.example/" + id,
		ProcessedAt: occurred.Add(time.Hour),
	}
}

func TestStore_SaveIncidents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	incidents := []domain.Incident{
		incidentAt("kidnapping-aaa", "Gunmen abduct travellers in Kaduna", "Kaduna", domain.CategoryKidnapping, base),
		incidentAt("banditry-bbb", "Bandits raid Zamfara village", "Zamfara", domain.CategoryBanditry, base.Add(24*time.Hour)),
	}

	stored, err := s.SaveIncidents(ctx, incidents)
	require.NoError(t, err)
	assert.Equal(t, 2, stored)

	t.Run("same ID is skipped", func(t *testing.T) {
		stored, err := s.SaveIncidents(ctx, incidents[:1])
		require.NoError(t, err)
		assert.Equal(t, 0, stored)
	})

	t.Run("same title under a new ID is skipped", func(t *testing.T) {
		dup := incidents[0]
		dup.ID = "kidnapping-zzz"
		stored, err := s.SaveIncidents(ctx, []domain.Incident{dup})
		require.NoError(t, err)
		assert.Equal(t, 0, stored)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		stored, err := s.SaveIncidents(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, stored)
	})
}

func TestStore_ListByRegions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.SaveIncidents(ctx, []domain.Incident{
		incidentAt("a", "Kaduna incident one", "Kaduna", domain.CategoryKidnapping, base),
		incidentAt("b", "Kaduna incident two", "Kaduna", domain.CategoryBanditry, base.Add(48*time.Hour)),
		incidentAt("c", "Zamfara incident", "Zamfara", domain.CategoryBanditry, base.Add(24*time.Hour)),
		incidentAt("d", "Lagos incident", "Lagos", domain.CategoryArmedRobbery, base.Add(12*time.Hour)),
	})
	require.NoError(t, err)

	from := base.Add(-time.Hour)
	to := base.Add(72 * time.Hour)

	t.Run("filters by region set", func(t *testing.T) {
		got, err := s.ListByRegions(ctx, []string{"Kaduna", "Zamfara"}, from, to)
		require.NoError(t, err)
		require.Len(t, got, 3)
		// Newest first.
		assert.Equal(t, "b", got[0].ID)
		assert.Equal(t, "c", got[1].ID)
		assert.Equal(t, "a", got[2].ID)
	})

	t.Run("window excludes the upper bound", func(t *testing.T) {
		got, err := s.ListByRegions(ctx, []string{"Kaduna"}, from, base.Add(48*time.Hour))
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "a", got[0].ID)
	})

	t.Run("empty region list matches nothing", func(t *testing.T) {
		got, err := s.ListByRegions(ctx, nil, from, to)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("round-trips all fields", func(t *testing.T) {
		got, err := s.ListByRegions(ctx, []string{"Lagos"}, from, to)
		require.NoError(t, err)
		require.Len(t, got, 1)
		want := incidentAt("d", "Lagos incident", "Lagos", domain.CategoryArmedRobbery, base.Add(12*time.Hour))
		assert.Equal(t, want, got[0])
	})
}

func TestStore_Counts(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	_, err := s.SaveIncidents(ctx, []domain.Incident{
		incidentAt("a", "first", "Kaduna", domain.CategoryKidnapping, base),
		incidentAt("b", "second", "Kaduna", domain.CategoryKidnapping, base.Add(time.Hour)),
		incidentAt("c", "third", "Borno", domain.CategoryTerrorism, base.Add(2*time.Hour)),
	})
	require.NoError(t, err)

	from := base.Add(-time.Hour)
	to := base.Add(24 * time.Hour)

	byRegion, err := s.CountByRegion(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"Kaduna": 2, "Borno": 1}, byRegion)

	byCategory, err := s.CountByCategory(ctx, from, to)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"kidnapping": 2, "terrorism": 1}, byCategory)
}

func TestStore_Subscriptions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	sub, err := s.Subscribe(ctx, domain.Subscription{
		Platform: "telegram",
		UserID:   "12345",
		Type:     domain.SubscribeState,
		Target:   "Kaduna",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "telegram", sub.Platform)
	assert.Equal(t, "Kaduna", sub.Target)
	assert.Equal(t, "moderate", sub.MinSeverity)
	assert.True(t, sub.Active)

	t.Run("resubscribing updates in place", func(t *testing.T) {
		again, err := s.Subscribe(ctx, domain.Subscription{
			Platform:    "telegram",
			UserID:      "12345",
			Type:        domain.SubscribeState,
			Target:      "Kaduna",
			MinSeverity: "high",
		})
		require.NoError(t, err)
		assert.Equal(t, sub.ID, again.ID)
		assert.Equal(t, "high", again.MinSeverity)
	})

	t.Run("rejects unknown type and severity", func(t *testing.T) {
		_, err := s.Subscribe(ctx, domain.Subscription{
			Platform: "telegram", UserID: "12345", Type: "city", Target: "Kaduna",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type")

		_, err = s.Subscribe(ctx, domain.Subscription{
			Platform: "telegram", UserID: "12345", Type: domain.SubscribeState,
			Target: "Kaduna", MinSeverity: "extreme",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "severity")
	})

	t.Run("lists by user and by target", func(t *testing.T) {
		_, err := s.Subscribe(ctx, domain.Subscription{
			Platform: "telegram", UserID: "12345", Type: domain.SubscribeRoute, Target: "lagos-kano",
		})
		require.NoError(t, err)
		_, err = s.Subscribe(ctx, domain.Subscription{
			Platform: "telegram", UserID: "67890", Type: domain.SubscribeState, Target: "Kaduna",
		})
		require.NoError(t, err)

		mine, err := s.Subscriptions(ctx, "telegram", "12345")
		require.NoError(t, err)
		assert.Len(t, mine, 2)

		watchers, err := s.SubscriptionsForTarget(ctx, domain.SubscribeState, "Kaduna")
		require.NoError(t, err)
		assert.Len(t, watchers, 2)
	})

	t.Run("unsubscribe removes the record", func(t *testing.T) {
		require.NoError(t, s.Unsubscribe(ctx, sub.ID))

		err := s.Unsubscribe(ctx, sub.ID)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}
