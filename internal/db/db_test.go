package db

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func TestOpenMemory(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Verify tables exist by querying each one.
	tables := []string{"pages", "copy_events"}

	for _, table := range tables {
		var count int
		err := d.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
	if d.Path() != ":memory:" {
		t.Errorf("Path() = %q, want :memory:", d.Path())
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kinlink.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if _, err := d.Exec("INSERT INTO pages (locale, route, title) VALUES ('en', '/', 'Home')"); err != nil {
		t.Fatalf("insert: %v", err)
	}
	d.Close()

	d, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer d.Close()

	var title string
	if err := d.QueryRow("SELECT title FROM pages WHERE locale = 'en' AND route = '/'").Scan(&title); err != nil {
		t.Fatalf("select: %v", err)
	}
	if title != "Home" {
		t.Errorf("title = %q, want Home", title)
	}
}

func TestCopyEventSourceConstraint(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	if _, err := d.Exec("INSERT INTO copy_events (id, source) VALUES ('a', 'fax')"); err == nil {
		t.Error("expected CHECK constraint violation")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	d, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer d.Close()

	// Running migrate again should not fail.
	if err := d.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestMigrateAddsFoldedColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	// A pages table from before the folded columns existed.
	old, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open() error: %v", err)
	}
	if _, err := old.Exec(`CREATE TABLE pages (
		locale TEXT NOT NULL,
		route TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		section TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		indexed_at DATETIME NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY(locale, route)
	)`); err != nil {
		t.Fatalf("create old table: %v", err)
	}
	old.Close()

	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer d.Close()

	for _, col := range foldedColumns {
		var n int
		if err := d.QueryRow("SELECT COUNT(*) FROM pragma_table_info('pages') WHERE name = ?", col).Scan(&n); err != nil {
			t.Fatalf("pragma: %v", err)
		}
		if n != 1 {
			t.Errorf("column %s missing after migrate", col)
		}
	}
}
