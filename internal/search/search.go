// Package search keeps a per-locale page index in SQLite and answers
// substring queries over it.
package search

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ziadkadry99/kinlink-docs/internal/db"
)

// DefaultLimit caps results when the caller gives no limit.
const DefaultLimit = 8

// MaxLimit is the largest accepted limit.
const MaxLimit = 50

// snippetRunes is the context kept on each side of a body match.
const snippetRunes = 60

// Entry is one indexed page.
type Entry struct {
	Locale      string `json:"locale"`
	Route       string `json:"route"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Section     string `json:"section,omitempty"`
	Body        string `json:"body,omitempty"`
}

// Hit is a search result.
type Hit struct {
	Route       string `json:"route"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Section     string `json:"section,omitempty"`
	Snippet     string `json:"snippet,omitempty"`
}

// Index is the SQLite-backed page index.
type Index struct {
	db *db.DB
}

// NewIndex creates an Index backed by the given database.
func NewIndex(database *db.DB) *Index {
	return &Index{db: database}
}

// Replace swaps every entry of locale for entries in one transaction.
func (ix *Index) Replace(ctx context.Context, locale string, entries []Entry) error {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning index transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE locale = ?", locale); err != nil {
		return fmt.Errorf("clearing %s index: %w", locale, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pages (
			locale, route, title, description, section, body,
			title_lc, description_lc, body_lc
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, locale, e.Route, e.Title, e.Description, e.Section, e.Body,
			fold(e.Title), fold(e.Description), fold(e.Body)); err != nil {
			return fmt.Errorf("indexing %s%s: %w", locale, e.Route, err)
		}
	}
	return tx.Commit()
}

// Count returns the number of indexed pages in locale.
func (ix *Index) Count(ctx context.Context, locale string) (int, error) {
	var n int
	err := ix.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM pages WHERE locale = ?", locale).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// Search returns pages of locale whose title, description or body contains
// query, case-insensitively. Title matches rank first, then description
// matches, then body matches; ties are ordered by route.
func (ix *Index) Search(ctx context.Context, locale, query string, limit int) ([]Hit, error) {
	q := fold(strings.TrimSpace(query))
	if q == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT route, title, description, section, body,
			CASE
				WHEN instr(title_lc, ?) > 0 THEN 0
				WHEN instr(description_lc, ?) > 0 THEN 1
				ELSE 2
			END AS rank
		FROM pages
		WHERE locale = ?
			AND (instr(title_lc, ?) > 0
				OR instr(description_lc, ?) > 0
				OR instr(body_lc, ?) > 0)
		ORDER BY rank, route
		LIMIT ?`, q, q, locale, q, q, q, limit)
	if err != nil {
		return nil, fmt.Errorf("searching pages: %w", err)
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var (
			h    Hit
			body string
			rank int
		)
		if err := rows.Scan(&h.Route, &h.Title, &h.Description, &h.Section, &body, &rank); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		if rank == 2 {
			h.Snippet = Snippet(body, q)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// fold lowercases s for matching. SQLite's lower() folds ASCII only, so
// the folded columns are written from Go and matched with instr.
func fold(s string) string {
	return strings.ToLower(s)
}

// Snippet returns the text around the first case-insensitive occurrence of
// q in body, cut on rune boundaries.
func Snippet(body, q string) string {
	lower := strings.ToLower(body)
	i := strings.Index(lower, strings.ToLower(q))
	n := len(q)
	if i < 0 || len(lower) != len(body) {
		// Lowercasing changed byte offsets; fall back to the leading text.
		i, n = 0, 0
	}

	start := i
	for n := 0; n < snippetRunes && start > 0; n++ {
		_, size := utf8.DecodeLastRuneInString(body[:start])
		start -= size
	}
	end := i + n
	for n := 0; n < snippetRunes && end < len(body); n++ {
		_, size := utf8.DecodeRuneInString(body[end:])
		end += size
	}

	out := strings.TrimSpace(body[start:end])
	if start > 0 {
		out = "…" + out
	}
	if end < len(body) {
		out += "…"
	}
	return out
}
