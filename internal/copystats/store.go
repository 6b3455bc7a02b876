// Package copystats records copy-button clicks and reports how often each
// sample is copied.
package copystats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/kinlink-docs/internal/db"
)

// Source identifies where a copy happened.
type Source string

const (
	SourceWeb Source = "web"
	SourceCLI Source = "cli"
)

// Event is one copy attempt.
type Event struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id,omitempty"`
	Locale    string    `json:"locale,omitempty"`
	Route     string    `json:"route,omitempty"`
	BlockID   int       `json:"block_id"`
	Sample    string    `json:"sample,omitempty"`
	Language  string    `json:"language,omitempty"`
	Source    Source    `json:"source"`
	Success   bool      `json:"success"`
}

// Count is the number of copies of one sample or route.
type Count struct {
	Key      string `json:"key"`
	Copies   int    `json:"copies"`
	Failures int    `json:"failures"`
	LastCopy string `json:"last_copy,omitempty"`
}

// Store persists copy events.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Record inserts ev. If ev.ID is empty a UUID is generated.
func (s *Store) Record(ctx context.Context, ev Event) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Source == "" {
		ev.Source = SourceWeb
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO copy_events (
			id, session_id, locale, route, block_id, sample, language, source, success
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID,
		ev.SessionID,
		ev.Locale,
		ev.Route,
		ev.BlockID,
		ev.Sample,
		ev.Language,
		string(ev.Source),
		ev.Success,
	)
	if err != nil {
		return fmt.Errorf("inserting copy event: %w", err)
	}
	return nil
}

// QueryFilter controls which events are returned by Query.
type QueryFilter struct {
	Locale string
	Route  string
	Sample string
	Source Source
	Since  *time.Time
	Limit  int
}

func (f QueryFilter) where() (string, []any) {
	var (
		clauses []string
		args    []any
	)
	if f.Locale != "" {
		clauses = append(clauses, "locale = ?")
		args = append(args, f.Locale)
	}
	if f.Route != "" {
		clauses = append(clauses, "route = ?")
		args = append(args, f.Route)
	}
	if f.Sample != "" {
		clauses = append(clauses, "sample = ?")
		args = append(args, f.Sample)
	}
	if f.Source != "" {
		clauses = append(clauses, "source = ?")
		args = append(args, string(f.Source))
	}
	if f.Since != nil {
		clauses = append(clauses, "timestamp >= ?")
		args = append(args, f.Since.UTC().Format(time.DateTime))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	where, args := filter.where()
	query := "SELECT id, timestamp, session_id, locale, route, block_id, sample, language, source, success FROM copy_events" +
		where + " ORDER BY timestamp DESC, id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying copy events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var (
			ev     Event
			ts     string
			source string
		)
		if err := rows.Scan(&ev.ID, &ts, &ev.SessionID, &ev.Locale, &ev.Route, &ev.BlockID, &ev.Sample, &ev.Language, &source, &ev.Success); err != nil {
			return nil, fmt.Errorf("scanning copy event: %w", err)
		}
		ev.Source = Source(source)
		ev.Timestamp = parseTime(ts)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// BySample aggregates successful and failed copies per sample, most copied
// first. Blocks without a named sample are grouped by route.
func (s *Store) BySample(ctx context.Context, filter QueryFilter) ([]Count, error) {
	where, args := filter.where()
	rows, err := s.db.QueryContext(ctx, `
		SELECT CASE WHEN sample != '' THEN sample ELSE locale || ':' || route END AS key,
			SUM(CASE WHEN success THEN 1 ELSE 0 END),
			SUM(CASE WHEN success THEN 0 ELSE 1 END),
			MAX(timestamp)
		FROM copy_events`+where+`
		GROUP BY key
		ORDER BY 2 DESC, key`, args...)
	if err != nil {
		return nil, fmt.Errorf("aggregating copy events: %w", err)
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Key, &c.Copies, &c.Failures, &c.LastCopy); err != nil {
			return nil, fmt.Errorf("scanning copy count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// DeleteBefore removes events older than before and returns how many were
// deleted.
func (s *Store) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM copy_events WHERE timestamp < ?",
		before.UTC().Format(time.DateTime),
	)
	if err != nil {
		return 0, fmt.Errorf("deleting old copy events: %w", err)
	}
	return res.RowsAffected()
}

func parseTime(s string) time.Time {
	for _, layout := range []string{time.DateTime, time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
