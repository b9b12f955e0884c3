// Package classify turns raw article text into typed incident records using
// keyword tables and regular-expression casualty extraction. Everything here
// is a pure function of the input text and static tables; no I/O.
package classify

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/region"
)

// securityKeywords is the relevance gate: an article mentioning none of
// these is not a security incident and is dropped before any further work.
var securityKeywords = []string{
	"kill", "attack", "kidnap", "abduct", "bandit", "terrorist", "boko haram",
	"gunmen", "robbery", "murder", "bomb", "insurgent", "ambush", "raid",
	"hostage", "ransom", "militia", "herder", "farmer",
}

// categoryEntry pairs a category with its keyword list. The table is
// evaluated in order and the first entry with any substring match wins, so
// the ordering below is the documented tie-break (see domain package doc).
type categoryEntry struct {
	category domain.Category
	keywords []string
}

var categoryTable = []categoryEntry{
	{domain.CategoryKidnapping, []string{
		"kidnap", "kidnapped", "kidnapping", "abduct", "abducted", "abduction",
		"hostage", "ransom", "seized", "captive", "held hostage",
	}},
	{domain.CategoryBanditry, []string{
		"bandit", "bandits", "banditry", "armed men", "gunmen", "herdsmen",
		"cattle rustl", "rustlers", "maraud",
	}},
	{domain.CategoryTerrorism, []string{
		"boko haram", "iswap", "terrorist", "terrorism", "insurgent", "insurgency",
		"bomb", "bombing", "explosion", "ied", "suicide attack",
	}},
	{domain.CategoryArmedRobbery, []string{
		"armed robbery", "robber", "robbery", "armed attack", "highway robbery",
	}},
}

// Casualty extraction pattern chains. Each chain is tried in order and the
// first parse wins; the chains' order is part of the contract because more
// than one pattern can match the same sentence.
var (
	killedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:people\s*)?(?:killed|dead|died|murdered|slain)`),
		regexp.MustCompile(`(?i)(?:killed|dead|died|murdered|slain)\s*(\d+)`),
	}
	kidnappedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:people\s*)?(?:kidnapped|abducted|seized|taken hostage)`),
		regexp.MustCompile(`(?i)(?:kidnapped|abducted|seized|taken hostage)\s*(\d+)`),
	}
	injuredPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:people\s*)?(?:injured|wounded)`),
		regexp.MustCompile(`(?i)(?:injured|wounded)\s*(\d+)`),
	}
	rescuedPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(?:people\s*)?(?:rescued|freed|released)`),
		regexp.MustCompile(`(?i)(?:rescued|freed|released)\s*(\d+)`),
	}
)

const maxSummaryLen = 500

// Classifier converts article text into incident drafts. Construct via New;
// it is stateless after construction and safe for concurrent use.
type Classifier struct {
	registry *region.Registry
	// names holds lowercased region names, longest first, paired with the
	// canonical form, plus aliases after them. Built once at construction.
	names []regionName
}

type regionName struct {
	lower     string
	canonical string
}

// New builds a Classifier over the given region registry.
func New(reg *region.Registry) *Classifier {
	c := &Classifier{registry: reg}
	for _, name := range reg.NamesLongestFirst() {
		c.names = append(c.names, regionName{lower: strings.ToLower(name), canonical: name})
	}
	for _, alias := range []string{"abuja", "fct"} {
		if canonical, ok := reg.Normalize(alias); ok {
			c.names = append(c.names, regionName{lower: alias, canonical: canonical})
		}
	}
	return c
}

// Classify inspects an article's title and summary and returns an incident
// draft, or false when the text is not a security incident. The draft has
// category, region, and casualty fields populated; provenance and timestamps
// are the caller's job (see ClassifyArticle).
func (c *Classifier) Classify(title, summary string) (domain.Incident, bool) {
	text := strings.TrimSpace(title + " " + summary)
	if text == "" {
		return domain.Incident{}, false
	}
	lower := strings.ToLower(text)

	if !containsAny(lower, securityKeywords) {
		return domain.Incident{}, false
	}

	inc := domain.Incident{
		Category:  classifyCategory(lower),
		Region:    c.extractRegion(lower),
		Title:     strings.TrimSpace(title),
		Summary:   truncate(strings.TrimSpace(summary), maxSummaryLen),
		Killed:    extractCount(lower, killedPatterns),
		Kidnapped: extractCount(lower, kidnappedPatterns),
		Injured:   extractCount(lower, injuredPatterns),
		Rescued:   extractCount(lower, rescuedPatterns),
	}
	return inc, true
}

// ClassifyArticle classifies a feed article and fills in provenance, the
// occurrence time, and a deterministic ID.
func (c *Classifier) ClassifyArticle(a domain.Article) (domain.Incident, bool) {
	inc, ok := c.Classify(a.Title, a.Summary)
	if !ok {
		return domain.Incident{}, false
	}
	inc.OccurredAt = a.PublishedAt
	inc.Source = a.Source
	inc.SourceURL = a.Link
	inc.ID = domain.GenerateID(inc.Category, inc.Region, inc.Title, inc.OccurredAt)
	inc.ProcessedAt = domain.Clock().Now()
	return inc, true
}

// classifyCategory walks the ordered category table; first match wins.
func classifyCategory(lower string) domain.Category {
	for _, entry := range categoryTable {
		if containsAny(lower, entry.keywords) {
			return entry.category
		}
	}
	return domain.CategoryOther
}

// extractRegion scans lowercased text for region names, longest first.
// Returns the canonical name of the first match, or "" when no region is
// mentioned. Note "niger" also matches inside "nigeria"; longest-first
// ordering keeps any longer state named in the text ahead of that collision.
func (c *Classifier) extractRegion(lower string) string {
	for _, n := range c.names {
		if strings.Contains(lower, n.lower) {
			return n.canonical
		}
	}
	return ""
}

// extractCount tries each pattern in order and returns the first parsed
// non-negative integer, defaulting to 0 on exhaustion.
func extractCount(lower string, patterns []*regexp.Regexp) int {
	for _, re := range patterns {
		match := re.FindStringSubmatch(lower)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
