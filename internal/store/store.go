// Package store persists classified incidents and alert subscriptions in a
// local SQLite database.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/couchcryptid/safejourney/internal/domain"
)

// Store is an incident repository backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open incident db: %w", err)
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate incident db: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SaveIncidents inserts new incidents and returns how many were stored.
// Incidents whose ID or title already exists are skipped, so re-ingesting a
// syndicated story is a no-op.
func (s *Store) SaveIncidents(ctx context.Context, incidents []domain.Incident) (int, error) {
	if len(incidents) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO incidents
		    (id, category, region, sub_region, title, summary, occurred_at,
		     killed, kidnapped, injured, rescued, source, source_url, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, inc := range incidents {
		res, err := stmt.ExecContext(ctx,
			inc.ID, string(inc.Category), inc.Region, inc.SubRegion,
			inc.Title, inc.Summary, formatTime(inc.OccurredAt),
			inc.Killed, inc.Kidnapped, inc.Injured, inc.Rescued,
			inc.Source, inc.SourceURL, formatTime(inc.ProcessedAt),
		)
		if err != nil {
			return 0, fmt.Errorf("insert incident %s: %w", inc.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit save: %w", err)
	}
	return stored, nil
}

// ListByRegions returns incidents in any of the given regions whose
// occurrence falls in [from, to), newest first. An empty region list matches
// nothing.
func (s *Store) ListByRegions(ctx context.Context, regions []string, from, to time.Time) ([]domain.Incident, error) {
	if len(regions) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(regions)-1) + "?"
	args := make([]any, 0, len(regions)+2)
	for _, r := range regions {
		args = append(args, r)
	}
	args = append(args, formatTime(from), formatTime(to))

	query := fmt.Sprintf(`
		SELECT id, category, region, sub_region, title, summary, occurred_at,
		       killed, kidnapped, injured, rescued, source, source_url, processed_at
		FROM incidents
		WHERE region IN (%s) AND occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC`, placeholders)

	return s.queryIncidents(ctx, query, args...)
}

// ListAll returns every incident whose occurrence falls in [from, to),
// newest first.
func (s *Store) ListAll(ctx context.Context, from, to time.Time) ([]domain.Incident, error) {
	return s.queryIncidents(ctx, `
		SELECT id, category, region, sub_region, title, summary, occurred_at,
		       killed, kidnapped, injured, rescued, source, source_url, processed_at
		FROM incidents
		WHERE occurred_at >= ? AND occurred_at < ?
		ORDER BY occurred_at DESC`,
		formatTime(from), formatTime(to))
}

// CountByRegion returns the incident count per region within [from, to).
func (s *Store) CountByRegion(ctx context.Context, from, to time.Time) (map[string]int, error) {
	return s.countBy(ctx, "region", from, to)
}

// CountByCategory returns the incident count per category within [from, to).
func (s *Store) CountByCategory(ctx context.Context, from, to time.Time) (map[string]int, error) {
	return s.countBy(ctx, "category", from, to)
}

func (s *Store) countBy(ctx context.Context, column string, from, to time.Time) (map[string]int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) FROM incidents
		WHERE occurred_at >= ? AND occurred_at < ?
		GROUP BY %s`, column, column)

	rows, err := s.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("count by %s: %w", column, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[key] = n
	}
	return counts, rows.Err()
}

func (s *Store) queryIncidents(ctx context.Context, query string, args ...any) ([]domain.Incident, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query incidents: %w", err)
	}
	defer rows.Close()

	var incidents []domain.Incident
	for rows.Next() {
		var inc domain.Incident
		var category, occurredAt, processedAt string
		if err := rows.Scan(
			&inc.ID, &category, &inc.Region, &inc.SubRegion,
			&inc.Title, &inc.Summary, &occurredAt,
			&inc.Killed, &inc.Kidnapped, &inc.Injured, &inc.Rescued,
			&inc.Source, &inc.SourceURL, &processedAt,
		); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		inc.Category = domain.Category(category)
		if inc.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, fmt.Errorf("parse occurred_at for %s: %w", inc.ID, err)
		}
		if inc.ProcessedAt, err = parseTime(processedAt); err != nil {
			return nil, fmt.Errorf("parse processed_at for %s: %w", inc.ID, err)
		}
		incidents = append(incidents, inc)
	}
	return incidents, rows.Err()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
