// Command routecheck scores a travel route against the locally stored
// incident history and prints a safety briefing.
//
// Usage:
//
//	go run ./cmd/routecheck -from lagos -to kano -days 30
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/route"
	"github.com/couchcryptid/safejourney/internal/scoring"
	"github.com/couchcryptid/safejourney/internal/store"
)

func main() {
	godotenv.Load() //nolint:errcheck // a missing .env falls through to real env vars

	from := flag.String("from", "", "origin state (name or alias, e.g. lagos)")
	to := flag.String("to", "", "destination state (name or alias, e.g. kano)")
	days := flag.Int("days", 30, "incident window in days")
	dbPath := flag.String("db", envOrDefault("SQLITE_PATH", "safejourney.db"), "path to the incident database")
	flag.Parse()

	if *from == "" || *to == "" {
		flag.Usage()
		os.Exit(1)
	}
	if *days <= 0 || *days > 365 {
		fmt.Fprintln(os.Stderr, "days must be between 1 and 365")
		os.Exit(1)
	}

	if code := run(*from, *to, *days, *dbPath); code != 0 {
		os.Exit(code)
	}
}

func run(from, to string, days int, dbPath string) int {
	graph := route.Default()
	edge, ok := graph.Find(from, to)
	if !ok {
		fmt.Fprintf(os.Stderr, "no known route between %q and %q\n\nKnown routes:\n", from, to)
		for _, e := range graph.All() {
			fmt.Fprintf(os.Stderr, "  %s -> %s (%s)\n", e.From, e.To, e.Description)
		}
		return 1
	}

	repo, err := store.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open incident store: %v\n", err)
		return 1
	}
	defer repo.Close()

	now := time.Now().UTC()
	regions := edge.Regions()
	incidents, err := repo.ListByRegions(context.Background(), regions, now.AddDate(0, 0, -days), now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "query incidents: %v\n", err)
		return 1
	}

	byRegion := make(map[string][]domain.Incident, len(regions))
	for _, inc := range incidents {
		byRegion[inc.Region] = append(byRegion[inc.Region], inc)
	}

	engine := scoring.New(scoring.DefaultConfig())
	score := engine.Route(edge.From, edge.To, regions, byRegion, days)

	printBriefing(edge, score, days)
	return 0
}

func printBriefing(edge route.Edge, score scoring.RouteScore, days int) {
	bold := color.New(color.Bold)

	bold.Printf("%s -> %s", edge.From, edge.To)
	fmt.Printf("  (%s, %.0f km, ~%.0f h)\n", edge.Description, edge.DistanceKm, edge.EstimatedHours)
	fmt.Printf("Crossing: %s\n\n", strings.Join(score.Regions, " - "))

	tierColor(score.Tier).Printf("Safety score %.1f/10 - %s\n", score.Score.Score, score.Label)
	fmt.Printf("%s\n\n", score.Description)

	fmt.Printf("Incidents in the last %d days:\n", days)
	for _, r := range score.Regions {
		n := score.IncidentsByRegion[r]
		marker := " "
		if n > 0 {
			marker = "!"
		}
		fmt.Printf("  %s %-26s %d\n", marker, r, n)
	}

	if len(score.Hotspots) > 0 {
		fmt.Println()
		bold.Println("Hotspots:")
		for _, h := range score.Hotspots {
			fmt.Printf("  - %s\n", h)
		}
	}

	fmt.Println()
	bold.Println("Recommendations:")
	for _, rec := range score.Recommendations {
		fmt.Printf("  - %s\n", rec)
	}
	fmt.Printf("\nSafest travel time: %s\n", score.SafestTravelTime)
}

func tierColor(tier scoring.Tier) *color.Color {
	switch tier {
	case scoring.TierLow:
		return color.New(color.FgGreen, color.Bold)
	case scoring.TierModerate:
		return color.New(color.FgYellow, color.Bold)
	case scoring.TierHigh:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.FgHiRed, color.Bold)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
