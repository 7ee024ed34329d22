// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library records resolved papers in a local SQLite index.
// This is a resolution log, not a search cache: search results are
// never stored across sessions.
package library

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/arxiv-notes/pkg/types"
)

const dbFile = "library.db"

// Entry is one recorded resolution.
type Entry struct {
	Paper      types.PaperMeta
	NotePath   string
	PDFPath    string
	ResolvedAt time.Time
}

// Store manages the library SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the library database at dir/library.db,
// creating the schema if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating library directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS papers (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		authors TEXT,
		year INTEGER,
		source_url TEXT NOT NULL,
		note_path TEXT,
		pdf_path TEXT,
		resolved_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts or replaces the entry for e.Paper.ID.
func (s *Store) Record(e Entry) error {
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now().UTC()
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO papers
		 (id, title, authors, year, source_url, note_path, pdf_path, resolved_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Paper.ID,
		e.Paper.Title,
		strings.Join(e.Paper.Authors, "; "),
		e.Paper.Year,
		e.Paper.SourceURL,
		e.NotePath,
		e.PDFPath,
		e.ResolvedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", e.Paper.ID, err)
	}
	return nil
}

// List returns all entries, most recently resolved first.
func (s *Store) List() ([]Entry, error) {
	rows, err := s.db.Query(
		`SELECT id, title, authors, year, source_url, note_path, pdf_path, resolved_at
		 FROM papers ORDER BY resolved_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("querying papers: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var authors, resolvedAt string
		if err := rows.Scan(&e.Paper.ID, &e.Paper.Title, &authors, &e.Paper.Year,
			&e.Paper.SourceURL, &e.NotePath, &e.PDFPath, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		if authors != "" {
			e.Paper.Authors = strings.Split(authors, "; ")
		}
		if t, parseErr := time.Parse(time.RFC3339, resolvedAt); parseErr == nil {
			e.ResolvedAt = t
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// FormatTable writes entries as a human-readable table to w.
func FormatTable(entries []Entry, w io.Writer) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "Library is empty.")
		return
	}

	fmt.Fprintf(w, "%-12s  %-50s  %-4s  %s\n", "ID", "Title", "Year", "Resolved")
	fmt.Fprintln(w, strings.Repeat("-", 90))
	for _, e := range entries {
		title := e.Paper.Title
		if runes := []rune(title); len(runes) > 50 {
			title = string(runes[:47]) + "..."
		}
		year := ""
		if e.Paper.Year > 0 {
			year = fmt.Sprintf("%d", e.Paper.Year)
		}
		fmt.Fprintf(w, "%-12s  %-50s  %-4s  %s\n",
			e.Paper.ID, title, year, e.ResolvedAt.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "\n%d papers\n", len(entries))
}
