// Package store records per-page export state so that unchanged pages can
// be skipped on re-export. One row per page: the content hash of the last
// storage body that was exported.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Schema is the complete export-state schema.
const Schema = `
CREATE TABLE IF NOT EXISTS pages (
    id           TEXT PRIMARY KEY,
    title        TEXT NOT NULL DEFAULT '',
    content_hash TEXT NOT NULL DEFAULT '',
    exported_at  INTEGER NOT NULL
);
`

// Store wraps the export-state database.
type Store struct {
	DB *sql.DB
}

// Open opens (creating directories and schema as needed) the state
// database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: mkdir %s: %w", dir, err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA foreign_keys=ON")
	s := NewStore(db)
	if err := s.Init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewStore wraps an already-opened database. The schema must be applied
// separately.
func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

// Init applies the schema.
func (s *Store) Init() error {
	if _, err := s.DB.Exec(Schema); err != nil {
		return fmt.Errorf("store: apply schema: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.DB.Close()
}

// PageHash returns the content hash recorded for a page, or "" if the page
// was never exported.
func (s *Store) PageHash(ctx context.Context, id string) (string, error) {
	var hash string
	err := s.DB.QueryRowContext(ctx,
		`SELECT content_hash FROM pages WHERE id = ?`, id).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: page hash %s: %w", id, err)
	}
	return hash, nil
}

// RecordExport upserts a page's export state.
func (s *Store) RecordExport(ctx context.Context, id, title, hash string) error {
	now := time.Now().UnixMilli()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO pages (id, title, content_hash, exported_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content_hash = excluded.content_hash,
			exported_at = excluded.exported_at`,
		id, title, hash, now)
	if err != nil {
		return fmt.Errorf("store: record export %s: %w", id, err)
	}
	return nil
}
