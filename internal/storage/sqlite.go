package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteBackend runs statements on a local database file through database/sql.
type SQLiteBackend struct {
	sqlQuerier
	db *sql.DB
}

// SQLiteDSN builds the driver connection string for path.
func SQLiteDSN(path string, foreignKeys bool) string {
	params := url.Values{}
	params.Add("_pragma", "busy_timeout(5000)")
	if foreignKeys {
		params.Add("_pragma", "foreign_keys(1)")
	}
	return "file:" + path + "?" + params.Encode()
}

// NewSQLiteBackend opens (creating if needed) the database file at path.
func NewSQLiteBackend(ctx context.Context, path string, foreignKeys bool) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", SQLiteDSN(path, foreignKeys))
	if err != nil {
		return nil, fmt.Errorf("storage: open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: open sqlite %s: %w", path, err)
	}
	return NewSQLiteBackendWithDB(db), nil
}

// NewSQLiteBackendWithDB wraps an open handle; tests pass a sqlmock connection.
func NewSQLiteBackendWithDB(db *sql.DB) *SQLiteBackend {
	if db == nil {
		panic("storage: sql db required")
	}
	return &SQLiteBackend{sqlQuerier: sqlQuerier{q: db}, db: db}
}

func (b *SQLiteBackend) Dialect() Dialect {
	return SQLiteDialect
}

func (b *SQLiteBackend) InTx(ctx context.Context, fn func(q Querier) error) error {
	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: begin: %w", err)
	}
	if err := fn(sqlQuerier{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

func (b *SQLiteBackend) IsUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	case sqlite3.SQLITE_CONSTRAINT:
		// primary code only when extended result codes are off
		return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}
	return false
}

func (b *SQLiteBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

func (b *SQLiteBackend) Close() error {
	return b.db.Close()
}

type sqlQueryable interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type sqlQuerier struct {
	q sqlQueryable
}

func (s sqlQuerier) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s sqlQuerier) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{Rows: rows}, nil
}

func (s sqlQuerier) QueryRow(ctx context.Context, query string, args ...any) Row {
	return sqlRow{row: s.q.QueryRowContext(ctx, query, args...)}
}

func (s sqlQuerier) InsertID(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := s.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

type sqlRows struct {
	*sql.Rows
}

func (r sqlRows) Close() {
	_ = r.Rows.Close()
}

type sqlRow struct {
	row *sql.Row
}

func (r sqlRow) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNoRows
	}
	return err
}
