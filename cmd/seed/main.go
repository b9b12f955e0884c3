// Command seed loads a fixed set of sample incidents into the local database
// so the API and routecheck can be exercised without live feeds. IDs are
// generated through the domain package with a fixed clock, so repeated runs
// are no-ops.
//
// Usage:
//
//	go run ./cmd/seed -db safejourney.db
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/safejourney/internal/domain"
	"github.com/couchcryptid/safejourney/internal/store"
)

type sample struct {
	category  domain.Category
	region    string
	subRegion string
	title     string
	summary   string
	date      string // YYYY-MM-DD
	killed    int
	kidnapped int
	injured   int
	source    string
}

var samples = []sample{
	{domain.CategoryBanditry, "Zamfara", "Anka", "Bandits attack village in Zamfara, kill 15",
		"Armed bandits attacked Kurya village in Anka LGA of Zamfara State, killing at least 15 people and abducting several others.",
		"2026-02-08", 15, 8, 0, "Premium Times"},
	{domain.CategoryKidnapping, "Kaduna", "Chikun", "Gunmen kidnap 5 travelers on Kaduna-Abuja highway",
		"Unknown gunmen abducted five travelers along the Kaduna-Abuja highway near Rijana area.",
		"2026-02-09", 0, 5, 0, "Vanguard"},
	{domain.CategoryTerrorism, "Borno", "Gwoza", "ISWAP terrorists attack military base in Borno",
		"Islamic State West Africa Province fighters attacked a military outpost in Gwoza LGA, killing 3 soldiers.",
		"2026-02-07", 3, 0, 7, "Punch"},
	{domain.CategoryArmedRobbery, "Lagos", "Ikorodu", "Armed robbers attack bank customers in Ikorodu",
		"A gang of armed robbers attacked customers leaving a bank in Ikorodu, dispossessing them of cash and valuables.",
		"2026-02-10", 0, 0, 2, "Punch"},
	{domain.CategoryBanditry, "Katsina", "Batsari", "Bandits rustle 200 cattle in Katsina",
		"Armed bandits invaded Unguwar Musa village and rustled over 200 cattle after overpowering local vigilantes.",
		"2026-02-06", 2, 0, 0, "Daily Trust"},
	{domain.CategoryKidnapping, "Niger", "Rafi", "20 villagers abducted in Niger State",
		"Bandits abducted about 20 villagers from Kukoki community in Rafi LGA during an overnight raid.",
		"2026-02-05", 0, 20, 0, "Premium Times"},
	{domain.CategoryTerrorism, "Yobe", "Gujba", "Boko Haram ambush kills 5 in Yobe",
		"Suspected Boko Haram insurgents ambushed a convoy near Gujba, killing 5 civilians.",
		"2026-02-04", 5, 0, 3, "Sahara Reporters"},
	{domain.CategoryBanditry, "Sokoto", "Rabah", "Bandits kill 8 in Sokoto village attack",
		"Armed bandits attacked Gandi village in Rabah LGA, killing 8 residents and burning several houses.",
		"2026-02-03", 8, 0, 0, "Vanguard"},
	{domain.CategoryKidnapping, "Taraba", "Wukari", "Gunmen abduct traditional ruler in Taraba",
		"A village head was kidnapped by gunmen along the Wukari-Jalingo road. Ransom demanded.",
		"2026-02-02", 0, 1, 0, "Tribune"},
	{domain.CategoryArmedRobbery, "Rivers", "Obio-Akpor", "Robbers attack bullion van in Port Harcourt",
		"Armed robbers attacked a bullion van along Aba Road in Port Harcourt, engaging police in a shootout.",
		"2026-02-01", 1, 0, 4, "Channels TV"},
	{domain.CategoryBanditry, "Plateau", "Riyom", "Herders attack farming community in Plateau",
		"Suspected herders attacked Rim village, killing 12 farmers and destroying crops.",
		"2026-01-30", 12, 0, 0, "Premium Times"},
	{domain.CategoryKidnapping, "Ogun", "Ijebu North", "Travelers kidnapped on Lagos-Ore expressway",
		"Gunmen abducted 6 passengers from a commercial bus along Lagos-Ore expressway in Ogun State.",
		"2026-01-29", 0, 6, 0, "Guardian"},
	{domain.CategoryOther, "Benue", "Logo", "Militia group clashes with locals in Benue",
		"Armed militia clashed with community members over land dispute, leaving 4 dead.",
		"2026-01-28", 4, 0, 10, "Vanguard"},
	{domain.CategoryTerrorism, "Adamawa", "Michika", "Suicide bomber targets market in Adamawa",
		"A suicide bomber detonated explosives at a crowded market in Michika, killing 7.",
		"2026-01-27", 7, 0, 15, "Punch"},
	{domain.CategoryBanditry, "Kebbi", "Danko-Wasagu", "Bandits kill 10 in Kebbi border town",
		"Armed bandits attacked Ribah town near the Niger Republic border, killing 10 and abducting women.",
		"2026-01-26", 10, 15, 0, "Daily Trust"},
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	dbPath := flag.String("db", "safejourney.db", "path to the incident database")
	flag.Parse()

	// Fixed clock for reproducible IDs and ProcessedAt timestamps.
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.February, 11, 6, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	repo, err := store.Open(*dbPath)
	if err != nil {
		return err
	}
	defer repo.Close()

	incidents := make([]domain.Incident, 0, len(samples))
	for _, s := range samples {
		occurred, err := time.Parse("2006-01-02", s.date)
		if err != nil {
			return fmt.Errorf("bad sample date %q: %w", s.date, err)
		}
		incidents = append(incidents, domain.Incident{
			ID:          domain.GenerateID(s.category, s.region, s.title, occurred),
			Category:    s.category,
			Region:      s.region,
			SubRegion:   s.subRegion,
			Title:       s.title,
			Summary:     s.summary,
			OccurredAt:  occurred,
			Killed:      s.killed,
			Kidnapped:   s.kidnapped,
			Injured:     s.injured,
			Source:      s.source,
			ProcessedAt: domain.Clock().Now(),
		})
	}

	stored, err := repo.SaveIncidents(context.Background(), incidents)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "seeded %d incidents (%d already present) into %s\n",
		stored, len(incidents)-stored, *dbPath)
	return nil
}
