// Package region holds the static catalog of Nigerian states and their
// geopolitical zones. The catalog is embedded YAML loaded once at startup
// and never mutated afterwards.
package region

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed data/regions.yaml
var regionsYAML []byte

// Region is one administrative state and its geopolitical zone.
type Region struct {
	Name string `yaml:"name"`
	Zone string `yaml:"zone"`
}

// Registry is an immutable catalog of regions with alias resolution.
// The zero value is not usable; construct via Load or Default.
type Registry struct {
	regions []Region
	byLower map[string]string // lowercased name -> canonical name
	zones   map[string]string // canonical name -> zone
	aliases map[string]string // lowercased alias -> canonical name
}

type catalogFile struct {
	Regions []Region          `yaml:"regions"`
	Aliases map[string]string `yaml:"aliases"`
}

var defaultRegistry = mustLoad()

// Default returns the process-wide registry built from the embedded catalog.
func Default() *Registry {
	return defaultRegistry
}

func mustLoad() *Registry {
	r, err := Load(regionsYAML)
	if err != nil {
		panic(fmt.Sprintf("region: embedded catalog invalid: %v", err))
	}
	return r
}

// Load parses a YAML catalog into a Registry. Region names must be unique
// and every alias must resolve to a known region.
func Load(data []byte) (*Registry, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse region catalog: %w", err)
	}
	if len(file.Regions) == 0 {
		return nil, fmt.Errorf("region catalog is empty")
	}

	r := &Registry{
		regions: file.Regions,
		byLower: make(map[string]string, len(file.Regions)),
		zones:   make(map[string]string, len(file.Regions)),
		aliases: make(map[string]string, len(file.Aliases)),
	}
	for _, reg := range file.Regions {
		lower := strings.ToLower(reg.Name)
		if _, dup := r.byLower[lower]; dup {
			return nil, fmt.Errorf("duplicate region name %q", reg.Name)
		}
		r.byLower[lower] = reg.Name
		r.zones[reg.Name] = reg.Zone
	}
	for alias, target := range file.Aliases {
		if _, ok := r.zones[target]; !ok {
			return nil, fmt.Errorf("alias %q points at unknown region %q", alias, target)
		}
		r.aliases[strings.ToLower(alias)] = target
	}
	return r, nil
}

// All returns the regions in catalog order. Callers must not modify the slice.
func (r *Registry) All() []Region {
	return r.regions
}

// Names returns the canonical region names in catalog order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.regions))
	for i, reg := range r.regions {
		names[i] = reg.Name
	}
	return names
}

// NamesLongestFirst returns region names ordered so that longer names are
// checked before shorter ones. Substring matching needs this so "Cross River"
// is never shadowed by a shorter name appearing earlier in the catalog.
// Ties keep catalog order, which makes matching deterministic.
func (r *Registry) NamesLongestFirst() []string {
	names := r.Names()
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	return names
}

// Normalize maps a region name or colloquial alias to its canonical form,
// case-insensitively. Returns false if the name is unknown.
func (r *Registry) Normalize(name string) (string, bool) {
	lower := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := r.aliases[lower]; ok {
		return canonical, true
	}
	if canonical, ok := r.byLower[lower]; ok {
		return canonical, true
	}
	return "", false
}

// Zone returns the geopolitical zone for a canonical or aliased region name.
func (r *Registry) Zone(name string) (string, bool) {
	canonical, ok := r.Normalize(name)
	if !ok {
		return "", false
	}
	return r.zones[canonical], true
}

// Contains reports whether the name resolves to a known region.
func (r *Registry) Contains(name string) bool {
	_, ok := r.Normalize(name)
	return ok
}

// Zones returns the distinct zone labels, sorted.
func (r *Registry) Zones() []string {
	seen := make(map[string]struct{})
	var zones []string
	for _, reg := range r.regions {
		if _, ok := seen[reg.Zone]; ok {
			continue
		}
		seen[reg.Zone] = struct{}{}
		zones = append(zones, reg.Zone)
	}
	sort.Strings(zones)
	return zones
}
