// Package scoring converts weighted incident counts into bounded safety
// scores, risk tiers, trends, and travel guidance. Every function is a pure
// computation over its inputs: no I/O, no retained state, deterministic.
//
// Inputs are assumed validated upstream: non-negative casualty counts and a
// positive window length. The engine clamps only its own output range.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/couchcryptid/safejourney/internal/domain"
)

// Tier is an ordered risk level derived from a normalized incident rate.
type Tier string

const (
	TierLow      Tier = "low"
	TierModerate Tier = "moderate"
	TierHigh     Tier = "high"
	TierSevere   Tier = "severe"
)

// Rank orders tiers: low < moderate < high < severe.
func (t Tier) Rank() int {
	switch t {
	case TierLow:
		return 0
	case TierModerate:
		return 1
	case TierHigh:
		return 2
	case TierSevere:
		return 3
	}
	return -1
}

// Trend classifies the direction of change between two equal-length windows.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendWorsening Trend = "worsening"
)

// tierMeta carries the presentation metadata attached to every tier.
type tierMeta struct {
	color       string
	label       string
	description string
}

var tierMetas = map[Tier]tierMeta{
	TierLow:      {"#22C55E", "Low Risk", "Generally safe. Exercise normal caution."},
	TierModerate: {"#F59E0B", "Moderate Risk", "Some incidents reported. Stay alert and avoid night travel."},
	TierHigh:     {"#EF4444", "High Risk", "Frequent incidents. Travel only if necessary, use secure transport."},
	TierSevere:   {"#7F1D1D", "Severe Risk", "Active danger zone. Avoid all non-essential travel."},
}

// Config holds the tunable scoring constants. The defaults are hand-tuned
// operational values, not derived statistically; deployments may override
// them, so nothing in this package reads them from globals.
type Config struct {
	// Weights is the per-category contribution of one incident to the
	// weighted mass. Categories absent from the map contribute 1.
	Weights map[domain.Category]float64

	// KilledPenalty and KidnappedPenalty are the additive per-person
	// casualty contributions. Deaths weigh more than abductions.
	KilledPenalty    float64
	KidnappedPenalty float64

	// LowMax, ModerateMax, HighMax are the ascending weekly-rate cutoffs
	// for tier assignment; anything above HighMax is severe.
	LowMax      float64
	ModerateMax float64
	HighMax     float64

	// ScoreScale multiplies the log term in the score formula.
	ScoreScale float64

	// TrendDeadbandPct is the +/- percent band treated as stable, which
	// keeps small absolute count changes from flapping the trend label.
	TrendDeadbandPct float64

	// RouteLengthDivisor sets the length normalization for routes: mass is
	// divided by max(1, regionCount/RouteLengthDivisor).
	RouteLengthDivisor float64

	// NeutralScore is returned by the national index when there are no
	// regions at all.
	NeutralScore float64
}

// DefaultConfig returns the standard scoring constants.
func DefaultConfig() Config {
	return Config{
		Weights: map[domain.Category]float64{
			domain.CategoryKidnapping:   1.5,
			domain.CategoryTerrorism:    2.0,
			domain.CategoryBanditry:     1.3,
			domain.CategoryArmedRobbery: 1.0,
			domain.CategoryOther:        0.8,
		},
		KilledPenalty:      0.3,
		KidnappedPenalty:   0.2,
		LowMax:             1,
		ModerateMax:        3,
		HighMax:            6,
		ScoreScale:         2,
		TrendDeadbandPct:   10,
		RouteLengthDivisor: 3,
		NeutralScore:       7.5,
	}
}

// Score is the common result shape shared by region, route, and national
// scores. Score runs 1-10 with 10 safest.
type Score struct {
	Score       float64 `json:"score"`
	Tier        Tier    `json:"tier"`
	Color       string  `json:"color"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

// RegionScore is the safety assessment for a single region over a window.
type RegionScore struct {
	Score
	Region       string `json:"region"`
	Incidents    int    `json:"incidents"`
	Killed       int    `json:"killed"`
	Kidnapped    int    `json:"kidnapped"`
	Trend        Trend  `json:"trend"`
	TrendPercent int    `json:"trend_percent"`
}

// RouteScore is the safety assessment for a multi-region route.
type RouteScore struct {
	Score
	From              string         `json:"from"`
	To                string         `json:"to"`
	Regions           []string       `json:"regions"`
	IncidentsByRegion map[string]int `json:"incidents_by_region"`
	Hotspots          []string       `json:"hotspots"`
	Recommendations   []string       `json:"recommendations"`
	SafestTravelTime  string         `json:"safest_travel_time"`
}

// NationalIndex is the incidence-weighted national rollup.
type NationalIndex struct {
	Score
	RegionsAffected int `json:"regions_affected"`
	TotalIncidents  int `json:"total_incidents"`
}

// Engine evaluates scores under one Config. The zero value is unusable;
// construct via New.
type Engine struct {
	cfg Config
}

// New returns an Engine using the given constants.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Region scores one region's incidents over a window of days. previous, when
// non-nil, is the raw incident count of the immediately preceding same-length
// window and drives the trend classification.
func (e *Engine) Region(name string, incidents []domain.Incident, days int, previous *int) RegionScore {
	mass := e.weightedMass(incidents)

	var killed, kidnapped int
	for _, inc := range incidents {
		killed += inc.Killed
		kidnapped += inc.Kidnapped
	}
	// Casualties add an extra penalty on top of the category weights.
	mass += float64(killed)*e.cfg.KilledPenalty + float64(kidnapped)*e.cfg.KidnappedPenalty

	rate := weeklyRate(mass, days)
	trend, trendPct := TrendStable, 0
	if previous != nil {
		trend, trendPct = e.Trend(len(incidents), *previous)
	}

	return RegionScore{
		Score:        e.scoreFor(rate),
		Region:       name,
		Incidents:    len(incidents),
		Killed:       killed,
		Kidnapped:    kidnapped,
		Trend:        trend,
		TrendPercent: trendPct,
	}
}

// Route scores a route by pooling the incidents of every region it crosses.
// regions must be the ordered region list from the route graph (origin,
// waypoints, destination); incidentsByRegion may omit regions with no
// incidents.
func (e *Engine) Route(from, to string, regions []string, incidentsByRegion map[string][]domain.Incident, days int) RouteScore {
	counts := make(map[string]int, len(regions))
	var all []domain.Incident
	for _, r := range regions {
		counts[r] = len(incidentsByRegion[r])
		all = append(all, incidentsByRegion[r]...)
	}

	// Route mass pools category weights only; the casualty penalty applies
	// to region scores, not route pooling. Length normalization keeps long
	// routes from being penalized purely for crossing more regions.
	lengthFactor := math.Max(1, float64(len(regions))/e.cfg.RouteLengthDivisor)
	mass := e.weightedMass(all) / lengthFactor
	rate := weeklyRate(mass, days)
	score := e.scoreFor(rate)

	hotspots := hotspotRanking(regions, counts)

	return RouteScore{
		Score:             score,
		From:              from,
		To:                to,
		Regions:           regions,
		IncidentsByRegion: counts,
		Hotspots:          hotspots,
		Recommendations:   recommendations(score.Tier, hotspots),
		SafestTravelTime:  safestTravelTime(score.Tier),
	}
}

// National computes the incidence-weighted average of per-region scores.
// Zero-incident regions still contribute weight 1, pulling the average
// toward the safe end without dominating. With no regions at all the fixed
// neutral default is returned.
func (e *Engine) National(regionScores []RegionScore) NationalIndex {
	if len(regionScores) == 0 {
		return NationalIndex{Score: e.presentScore(e.cfg.NeutralScore, TierModerate)}
	}

	var weightedSum, totalWeight float64
	var affected, total int
	for _, rs := range regionScores {
		weight := math.Max(1, float64(rs.Incidents))
		weightedSum += rs.Score.Score * weight
		totalWeight += weight
		total += rs.Incidents
		if rs.Incidents > 0 {
			affected++
		}
	}

	avg := round1(weightedSum / totalWeight)
	return NationalIndex{
		Score:           e.presentScore(avg, e.tierForScore(avg)),
		RegionsAffected: affected,
		TotalIncidents:  total,
	}
}

// Trend returns the classification and signed percent change between a
// current-window count and the preceding same-length window's count.
// A zero previous window maps any increase to +100% and no change to 0%.
func (e *Engine) Trend(current, previous int) (Trend, int) {
	var pct int
	switch {
	case previous > 0:
		pct = int(math.Round(float64(current-previous) / float64(previous) * 100))
	case current > 0:
		pct = 100
	}

	switch {
	case float64(pct) < -e.cfg.TrendDeadbandPct:
		return TrendImproving, pct
	case float64(pct) > e.cfg.TrendDeadbandPct:
		return TrendWorsening, pct
	default:
		return TrendStable, pct
	}
}

// weightedMass sums per-category weights across incidents. Unknown
// categories weigh 1.
func (e *Engine) weightedMass(incidents []domain.Incident) float64 {
	var mass float64
	for _, inc := range incidents {
		w, ok := e.cfg.Weights[inc.Category]
		if !ok {
			w = 1
		}
		mass += w
	}
	return mass
}

// weeklyRate normalizes a mass observed over days to a 7-day-equivalent
// rate so windows of different lengths compare on a common basis.
func weeklyRate(mass float64, days int) float64 {
	return mass / float64(days) * 7
}

// scoreFor maps a weekly rate to a presented score and tier. The mapping is
// inverse and concave: the first incidents cost far more score than later
// ones once the rate is already high.
func (e *Engine) scoreFor(rate float64) Score {
	raw := 10 - math.Log2(rate+1)*e.cfg.ScoreScale
	value := round1(math.Min(10, math.Max(1, raw)))
	return e.presentScore(value, e.tierForRate(rate))
}

func (e *Engine) tierForRate(rate float64) Tier {
	switch {
	case rate <= e.cfg.LowMax:
		return TierLow
	case rate <= e.cfg.ModerateMax:
		return TierModerate
	case rate <= e.cfg.HighMax:
		return TierHigh
	default:
		return TierSevere
	}
}

// tierForScore derives a tier from an already-computed score, used by the
// national index where no single incident mass exists.
func (e *Engine) tierForScore(score float64) Tier {
	switch {
	case score >= 7:
		return TierLow
	case score >= 5:
		return TierModerate
	case score >= 3:
		return TierHigh
	default:
		return TierSevere
	}
}

func (e *Engine) presentScore(value float64, tier Tier) Score {
	meta := tierMetas[tier]
	return Score{
		Score:       value,
		Tier:        tier,
		Color:       meta.color,
		Label:       meta.label,
		Description: meta.description,
	}
}

// hotspotRanking returns the route's regions with incidents, sorted by count
// descending. Ties keep alphabetical (catalog) order.
func hotspotRanking(regions []string, counts map[string]int) []string {
	var hot []string
	for _, r := range regions {
		if counts[r] > 0 {
			hot = append(hot, r)
		}
	}
	sort.SliceStable(hot, func(i, j int) bool {
		if counts[hot[i]] != counts[hot[j]] {
			return counts[hot[i]] > counts[hot[j]]
		}
		return hot[i] < hot[j]
	})
	return hot
}

// recommendations selects tier-dependent guidance strings, naming the worst
// hotspot at moderate risk.
func recommendations(tier Tier, hotspots []string) []string {
	switch tier {
	case TierLow:
		return []string{
			"Route is generally safe",
			"Normal precautions advised",
		}
	case TierModerate:
		recs := []string{
			"Travel during daylight hours (6 AM - 6 PM)",
			"Avoid stopping in isolated areas",
		}
		if len(hotspots) > 0 {
			recs = append(recs, fmt.Sprintf("Exercise extra caution in %s", hotspots[0]))
		}
		return recs
	case TierHigh:
		return []string{
			"Consider postponing non-essential travel",
			"Use reputable transport services only",
			"Share your itinerary with family",
			"Avoid night travel completely",
		}
	default:
		return []string{
			"Avoid this route if possible",
			"Seek alternative transportation (air travel)",
			"If travel is essential, use security escort",
		}
	}
}

func safestTravelTime(tier Tier) string {
	switch tier {
	case TierSevere:
		return "Not recommended"
	case TierHigh:
		return "Early morning only (6-9 AM)"
	default:
		return "Daytime (6 AM - 6 PM)"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
