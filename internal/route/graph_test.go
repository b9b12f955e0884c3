package route

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/safejourney/internal/region"
)

func TestDefault_EdgeListLoads(t *testing.T) {
	g := Default()
	require.NotEmpty(t, g.All())

	// Every edge satisfies the waypoint invariant against the registry.
	reg := region.Default()
	for _, e := range g.All() {
		for _, name := range e.Regions() {
			assert.True(t, reg.Contains(name), "edge %s references %q", e.ID, name)
		}
		for _, w := range e.Waypoints {
			assert.NotEqual(t, e.From, w, "edge %s", e.ID)
			assert.NotEqual(t, e.To, w, "edge %s", e.ID)
		}
	}
}

func TestFind_DirectMatch(t *testing.T) {
	g := Default()

	e, ok := g.Find("Lagos", "Kano")
	require.True(t, ok)
	assert.Equal(t, "lagos-kano", e.ID)
	assert.Equal(t, "Lagos", e.From)
	assert.Equal(t, "Kano", e.To)
	assert.Equal(t, []string{"Ogun", "Oyo", "Kwara", "Niger", "Kaduna"}, e.Waypoints)
	assert.Equal(t, 980.0, e.DistanceKm)
	assert.Equal(t, 14.0, e.EstimatedHours)
}

func TestFind_ReverseDerivation(t *testing.T) {
	g := Default()

	forward, ok := g.Find("Lagos", "Kano")
	require.True(t, ok)
	reverse, ok := g.Find("Kano", "Lagos")
	require.True(t, ok)

	assert.Equal(t, forward.From, reverse.To)
	assert.Equal(t, forward.To, reverse.From)
	assert.Equal(t, forward.DistanceKm, reverse.DistanceKm)
	assert.Equal(t, forward.EstimatedHours, reverse.EstimatedHours)
	assert.Equal(t, forward.Description, reverse.Description)

	require.Len(t, reverse.Waypoints, len(forward.Waypoints))
	for i, w := range forward.Waypoints {
		assert.Equal(t, w, reverse.Waypoints[len(forward.Waypoints)-1-i])
	}

	// The stored edge must be untouched by the derivation.
	again, ok := g.Find("Lagos", "Kano")
	require.True(t, ok)
	assert.Equal(t, forward, again)
}

func TestFind_AliasNormalization(t *testing.T) {
	g := Default()

	byAlias, ok := g.Find("Abuja", "Kaduna")
	require.True(t, ok)
	byName, ok := g.Find("Federal Capital Territory", "Kaduna")
	require.True(t, ok)
	assert.Equal(t, byName, byAlias)

	_, ok = g.Find("fct", "kano")
	assert.True(t, ok)
}

func TestFind_NotFound(t *testing.T) {
	g := Default()

	_, ok := g.Find("Lagos", "Borno")
	assert.False(t, ok, "no curated edge for this pair")

	_, ok = g.Find("Lagos", "Atlantis")
	assert.False(t, ok, "unknown destination")

	_, ok = g.Find("", "Kano")
	assert.False(t, ok)
}

func TestEdgeRegions(t *testing.T) {
	g := Default()

	e, ok := g.Find("Lagos", "Abuja")
	require.True(t, ok)
	assert.Equal(t,
		[]string{"Lagos", "Ogun", "Oyo", "Kwara", "Niger", "Federal Capital Territory"},
		e.Regions(),
	)

	// Zero-waypoint edge.
	e, ok = g.Find("Abuja", "Kaduna")
	require.True(t, ok)
	assert.Equal(t, []string{"Federal Capital Territory", "Kaduna"}, e.Regions())
}

func TestAllRegions(t *testing.T) {
	g := Default()
	names := g.AllRegions()

	require.NotEmpty(t, names)
	assert.IsIncreasing(t, names)
	assert.Contains(t, names, "Lagos")
	assert.Contains(t, names, "Federal Capital Territory")
	assert.Contains(t, names, "Kaduna") // waypoint-only appearances count too

	seen := make(map[string]int)
	for _, n := range names {
		seen[n]++
	}
	for n, count := range seen {
		assert.Equal(t, 1, count, "%s appears more than once", n)
	}
}

func TestLoad_RejectsBadEdgeLists(t *testing.T) {
	reg := region.Default()

	t.Run("unknown region", func(t *testing.T) {
		_, err := Load([]byte(`
routes:
  - {id: x, from: Lagos, to: Gotham, waypoints: []}
`), reg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown region")
	})

	t.Run("waypoint repeats endpoint", func(t *testing.T) {
		_, err := Load([]byte(`
routes:
  - {id: x, from: Lagos, to: Kano, waypoints: [Lagos]}
`), reg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "repeats an endpoint")
	})

	t.Run("duplicate pair in reverse direction", func(t *testing.T) {
		_, err := Load([]byte(`
routes:
  - {id: a, from: Lagos, to: Kano, waypoints: []}
  - {id: b, from: Kano, to: Lagos, waypoints: []}
`), reg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "same endpoints")
	})
}
