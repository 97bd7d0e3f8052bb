package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func setupTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreWrapsExistingDB(t *testing.T) {
	// Callers that manage the connection themselves wrap it and apply
	// the schema explicitly.
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(db)
	t.Cleanup(func() { s.Close() })
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if err := s.RecordExport(ctx, "9", "Page", "ccc"); err != nil {
		t.Fatal(err)
	}
	hash, err := s.PageHash(ctx, "9")
	if err != nil {
		t.Fatal(err)
	}
	if hash != "ccc" {
		t.Errorf("hash = %q, want ccc", hash)
	}
}

func TestPageHashUnknownPage(t *testing.T) {
	s := setupTest(t)

	hash, err := s.PageHash(context.Background(), "nope")
	if err != nil {
		t.Fatal(err)
	}
	if hash != "" {
		t.Errorf("hash = %q, want empty", hash)
	}
}

func TestRecordExportUpsert(t *testing.T) {
	s := setupTest(t)
	ctx := context.Background()

	if err := s.RecordExport(ctx, "42", "Answer", "aaa"); err != nil {
		t.Fatal(err)
	}
	hash, err := s.PageHash(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if hash != "aaa" {
		t.Errorf("hash = %q, want aaa", hash)
	}

	// Second export of the same page replaces the hash.
	if err := s.RecordExport(ctx, "42", "Answer", "bbb"); err != nil {
		t.Fatal(err)
	}
	hash, _ = s.PageHash(ctx, "42")
	if hash != "bbb" {
		t.Errorf("hash after upsert = %q, want bbb", hash)
	}

	var count int
	s.DB.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&count)
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}
