package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"time"
)

// Category classifies a security incident. The set is closed; anything the
// classifier cannot place in a specific category becomes CategoryOther.
type Category string

const (
	CategoryKidnapping   Category = "kidnapping"
	CategoryBanditry     Category = "banditry"
	CategoryTerrorism    Category = "terrorism"
	CategoryArmedRobbery Category = "armed_robbery"
	CategoryOther        Category = "other"
)

// Categories lists every category in classifier precedence order.
// Kidnapping outranks banditry, banditry outranks terrorism, and so on;
// when an article matches keywords from several categories the earliest
// entry here wins.
var Categories = []Category{
	CategoryKidnapping,
	CategoryBanditry,
	CategoryTerrorism,
	CategoryArmedRobbery,
	CategoryOther,
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool {
	switch c {
	case CategoryKidnapping, CategoryBanditry, CategoryTerrorism, CategoryArmedRobbery, CategoryOther:
		return true
	}
	return false
}

// Article is a raw news item as returned by a feed source, before
// classification.
type Article struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary,omitempty"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}

// Incident is a single classified security event. Incidents are immutable
// once created; corrections are new records, never in-place updates.
type Incident struct {
	ID         string    `json:"id"`
	Category   Category  `json:"category"`
	Region     string    `json:"region,omitempty"`     // canonical region name, empty when none matched
	SubRegion  string    `json:"sub_region,omitempty"` // free text, e.g. an LGA or town
	Title      string    `json:"title"`
	Summary    string    `json:"summary,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`

	Killed    int `json:"killed"`
	Kidnapped int `json:"kidnapped"`
	Injured   int `json:"injured"`
	Rescued   int `json:"rescued"`

	Source      string    `json:"source"`
	SourceURL   string    `json:"source_url,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// GenerateID produces a deterministic ID from an incident's key fields.
// Reclassifying the same article yields the same ID, which keeps downstream
// persistence and stream replay idempotent.
func GenerateID(category Category, region, title string, occurredAt time.Time) string {
	input := fmt.Sprintf("%s|%s|%s|%d", category, region, title, occurredAt.Unix())
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if category == "" {
		return short
	}
	return string(category) + "-" + short
}

// Batch is one refresh cycle's worth of classified incidents plus rollup
// statistics. Batches are what the ingestion cache memoizes.
type Batch struct {
	Incidents []Incident `json:"incidents"`
	Stats     BatchStats `json:"stats"`
}

// BatchStats summarizes a batch for dashboards and logging.
type BatchStats struct {
	Total          int              `json:"total"`
	ByCategory     map[Category]int `json:"by_category,omitempty"`
	ByRegion       map[string]int   `json:"by_region,omitempty"`
	TotalKilled    int              `json:"total_killed"`
	TotalKidnapped int              `json:"total_kidnapped"`
}

// NewBatch sorts incidents by occurrence time descending and computes stats.
func NewBatch(incidents []Incident) Batch {
	sort.SliceStable(incidents, func(i, j int) bool {
		return incidents[i].OccurredAt.After(incidents[j].OccurredAt)
	})

	stats := BatchStats{
		Total:      len(incidents),
		ByCategory: make(map[Category]int),
		ByRegion:   make(map[string]int),
	}
	for _, inc := range incidents {
		stats.ByCategory[inc.Category]++
		if inc.Region != "" {
			stats.ByRegion[inc.Region]++
		}
		stats.TotalKilled += inc.Killed
		stats.TotalKidnapped += inc.Kidnapped
	}
	return Batch{Incidents: incidents, Stats: stats}
}
