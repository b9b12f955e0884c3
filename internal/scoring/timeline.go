package scoring

import (
	"fmt"
	"sort"
	"time"

	"github.com/couchcryptid/safejourney/internal/domain"
)

// Bucket selects the grain of a timeline.
type Bucket string

const (
	BucketDay   Bucket = "day"
	BucketWeek  Bucket = "week"
	BucketMonth Bucket = "month"
)

// TimelinePoint is one bucket of a trend timeline.
type TimelinePoint struct {
	Label     string `json:"label"`
	Incidents int    `json:"incidents"`
	Killed    int    `json:"killed"`
	Kidnapped int    `json:"kidnapped"`
}

// TimelineSummary rolls up a timeline's window.
type TimelineSummary struct {
	TotalIncidents int                     `json:"total_incidents"`
	TotalKilled    int                     `json:"total_killed"`
	TotalKidnapped int                     `json:"total_kidnapped"`
	ByCategory     map[domain.Category]int `json:"by_category"`
	TopRegions     []RegionCount           `json:"top_regions"`
	Trend          Trend                   `json:"trend"`
	TrendPercent   int                     `json:"trend_percent"`
}

// RegionCount pairs a region with its incident count for ranking output.
type RegionCount struct {
	Region string `json:"region"`
	Count  int    `json:"count"`
}

const topRegionLimit = 10

// Timeline groups incidents into consecutive buckets between from and to,
// filling empty buckets with zero points so charts have no gaps. Incidents
// outside the window are ignored.
func Timeline(incidents []domain.Incident, from, to time.Time, bucket Bucket) []TimelinePoint {
	grouped := make(map[time.Time]*TimelinePoint)
	for _, inc := range incidents {
		if inc.OccurredAt.Before(from) || inc.OccurredAt.After(to) {
			continue
		}
		key := bucketStart(inc.OccurredAt, bucket)
		p, ok := grouped[key]
		if !ok {
			p = &TimelinePoint{Label: bucketLabel(key, bucket)}
			grouped[key] = p
		}
		p.Incidents++
		p.Killed += inc.Killed
		p.Kidnapped += inc.Kidnapped
	}

	var points []TimelinePoint
	for cur := bucketStart(from, bucket); !cur.After(to); cur = nextBucket(cur, bucket) {
		if p, ok := grouped[cur]; ok {
			points = append(points, *p)
			continue
		}
		points = append(points, TimelinePoint{Label: bucketLabel(cur, bucket)})
	}
	return points
}

// Summarize rolls up a window of incidents: totals, category breakdown, the
// busiest regions, and a half-window trend (first half vs second half).
func (e *Engine) Summarize(incidents []domain.Incident, from, to time.Time) TimelineSummary {
	s := TimelineSummary{ByCategory: make(map[domain.Category]int)}
	byRegion := make(map[string]int)

	midpoint := from.Add(to.Sub(from) / 2)
	var firstHalf, secondHalf int

	for _, inc := range incidents {
		if inc.OccurredAt.Before(from) || inc.OccurredAt.After(to) {
			continue
		}
		s.TotalIncidents++
		s.TotalKilled += inc.Killed
		s.TotalKidnapped += inc.Kidnapped
		s.ByCategory[inc.Category]++
		if inc.Region != "" {
			byRegion[inc.Region]++
		}
		if inc.OccurredAt.Before(midpoint) {
			firstHalf++
		} else {
			secondHalf++
		}
	}

	for region, count := range byRegion {
		s.TopRegions = append(s.TopRegions, RegionCount{Region: region, Count: count})
	}
	sort.Slice(s.TopRegions, func(i, j int) bool {
		if s.TopRegions[i].Count != s.TopRegions[j].Count {
			return s.TopRegions[i].Count > s.TopRegions[j].Count
		}
		return s.TopRegions[i].Region < s.TopRegions[j].Region
	})
	if len(s.TopRegions) > topRegionLimit {
		s.TopRegions = s.TopRegions[:topRegionLimit]
	}

	s.Trend, s.TrendPercent = e.Trend(secondHalf, firstHalf)
	return s
}

// bucketStart truncates t to the start of its bucket in UTC. Weeks start on
// Sunday.
func bucketStart(t time.Time, bucket Bucket) time.Time {
	t = t.UTC()
	switch bucket {
	case BucketWeek:
		day := t.Truncate(24 * time.Hour)
		return day.AddDate(0, 0, -int(day.Weekday()))
	case BucketMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(24 * time.Hour)
	}
}

func nextBucket(t time.Time, bucket Bucket) time.Time {
	switch bucket {
	case BucketWeek:
		return t.AddDate(0, 0, 7)
	case BucketMonth:
		return t.AddDate(0, 1, 0)
	default:
		return t.AddDate(0, 0, 1)
	}
}

func bucketLabel(start time.Time, bucket Bucket) string {
	switch bucket {
	case BucketWeek:
		_, week := start.ISOWeek()
		return fmt.Sprintf("W%d", week)
	case BucketMonth:
		return start.Format("Jan 06")
	default:
		return fmt.Sprintf("%d/%d", int(start.Month()), start.Day())
	}
}
