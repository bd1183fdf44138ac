// Package storagetest provides throwaway backends for tests.
package storagetest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/wolfman30/clinic-booking-api/internal/storage"
)

// NewSQLite returns a migrated SQLite backend in a temp directory. The
// backend is closed when the test finishes.
func NewSQLite(t testing.TB) storage.Backend {
	t.Helper()
	opts := storage.Options{SQLitePath: filepath.Join(t.TempDir(), "appointments.db")}
	if err := storage.Migrate(opts); err != nil {
		t.Fatalf("migrate sqlite: %v", err)
	}
	backend, err := storage.Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	return backend
}

// NewSeededSQLite returns a migrated SQLite backend holding the seed rows.
func NewSeededSQLite(t testing.TB) storage.Backend {
	t.Helper()
	backend := NewSQLite(t)
	if _, err := storage.Seed(context.Background(), backend); err != nil {
		t.Fatalf("seed sqlite: %v", err)
	}
	return backend
}

// Count returns the number of rows in table.
func Count(t testing.TB, backend storage.Backend, table string) int64 {
	t.Helper()
	query, args, err := backend.Dialect().Builder().From(table).Select(goqu.COUNT(goqu.Star())).Prepared(true).ToSQL()
	if err != nil {
		t.Fatalf("build count: %v", err)
	}
	var n int64
	if err := backend.QueryRow(context.Background(), query, args...).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}
