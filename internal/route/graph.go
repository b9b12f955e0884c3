// Package route holds the curated intercity route graph. Edges are static
// configuration embedded at build time; lookups never mutate them. There is
// no pathfinding: a pair of endpoints either has a curated edge or it does
// not, and callers are expected to offer the known endpoints as a fallback.
package route

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/safejourney/internal/region"
)

//go:embed data/routes.yaml
var routesYAML []byte

// Edge is one curated route between two locations. Waypoints are the
// regions crossed between the endpoints, in travel order, excluding the
// endpoints themselves.
type Edge struct {
	ID             string   `yaml:"id"`
	From           string   `yaml:"from"`
	To             string   `yaml:"to"`
	Waypoints      []string `yaml:"waypoints"`
	DistanceKm     float64  `yaml:"distance_km"`
	EstimatedHours float64  `yaml:"estimated_hours"`
	Description    string   `yaml:"description"`
}

// Regions returns every region the edge touches: origin, waypoints in
// order, then destination.
func (e Edge) Regions() []string {
	regions := make([]string, 0, len(e.Waypoints)+2)
	regions = append(regions, e.From)
	regions = append(regions, e.Waypoints...)
	return append(regions, e.To)
}

// reversed derives the opposite-direction edge: endpoints swapped, waypoint
// order flipped, every other field carried over unchanged. The stored edge
// is never modified.
func (e Edge) reversed() Edge {
	waypoints := make([]string, len(e.Waypoints))
	for i, w := range e.Waypoints {
		waypoints[len(e.Waypoints)-1-i] = w
	}
	e.From, e.To = e.To, e.From
	e.Waypoints = waypoints
	return e
}

// Graph is the immutable set of curated edges. Construct via Load or Default.
type Graph struct {
	edges    []Edge
	registry *region.Registry
}

type routesFile struct {
	Routes []Edge `yaml:"routes"`
}

var defaultGraph = mustLoad()

// Default returns the process-wide graph built from the embedded edge list.
func Default() *Graph {
	return defaultGraph
}

func mustLoad() *Graph {
	g, err := Load(routesYAML, region.Default())
	if err != nil {
		panic(fmt.Sprintf("route: embedded edge list invalid: %v", err))
	}
	return g
}

// Load parses a YAML edge list and validates it against the region registry:
// endpoints and waypoints must be known regions, waypoints must not repeat
// an endpoint, and no two edges may connect the same pair of endpoints.
func Load(data []byte, reg *region.Registry) (*Graph, error) {
	var file routesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse route list: %w", err)
	}
	if len(file.Routes) == 0 {
		return nil, fmt.Errorf("route list is empty")
	}

	pairs := make(map[string]string)
	for _, e := range file.Routes {
		if e.ID == "" {
			return nil, fmt.Errorf("route with empty id (from %q to %q)", e.From, e.To)
		}
		for _, name := range e.Regions() {
			if !reg.Contains(name) {
				return nil, fmt.Errorf("route %s references unknown region %q", e.ID, name)
			}
		}
		for _, w := range e.Waypoints {
			if w == e.From || w == e.To {
				return nil, fmt.Errorf("route %s waypoint %q repeats an endpoint", e.ID, w)
			}
		}
		key := pairKey(e.From, e.To)
		if other, dup := pairs[key]; dup {
			return nil, fmt.Errorf("routes %s and %s connect the same endpoints", other, e.ID)
		}
		pairs[key] = e.ID
	}

	return &Graph{edges: file.Routes, registry: reg}, nil
}

// pairKey is direction-independent so reverse duplicates are caught too.
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + "|" + b
}

// Find returns the edge connecting the two named locations, in the requested
// direction. Names go through the registry's alias normalization, so "Abuja"
// and "Federal Capital Territory" are interchangeable. When only the
// opposite-direction edge is stored, a reversed derivation is returned.
// The second result is false when either name is unknown or no edge exists.
func (g *Graph) Find(from, to string) (Edge, bool) {
	fromNorm, ok := g.registry.Normalize(from)
	if !ok {
		return Edge{}, false
	}
	toNorm, ok := g.registry.Normalize(to)
	if !ok {
		return Edge{}, false
	}

	for _, e := range g.edges {
		if e.From == fromNorm && e.To == toNorm {
			return e, true
		}
		if e.From == toNorm && e.To == fromNorm {
			return e.reversed(), true
		}
	}
	return Edge{}, false
}

// All returns every stored edge in catalog order. Callers must not modify
// the slice.
func (g *Graph) All() []Edge {
	return g.edges
}

// AllRegions returns the deduplicated, sorted union of every endpoint and
// waypoint across the edge list. Used to populate "known locations" listings.
func (g *Graph) AllRegions() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, e := range g.edges {
		for _, name := range e.Regions() {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
