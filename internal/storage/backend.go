// Package storage provides the relational backends the booking service runs on.
//
// Two implementations satisfy Backend: PostgresBackend (pgx pool, selected when a
// connection string is configured) and SQLiteBackend (a local database file).
// Callers build statements with the backend's Dialect so the same query
// definitions render the right placeholder syntax on either engine.
package storage

import (
	"context"
	"errors"
)

// ErrNoRows is returned by Row.Scan when a query matched nothing.
var ErrNoRows = errors.New("storage: no rows in result set")

// Rows is a forward-only cursor over a result set.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// Row is the result of a single-row query.
type Row interface {
	Scan(dest ...any) error
}

// Querier executes parameterized statements.
type Querier interface {
	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	// InsertID runs an INSERT and returns the generated integer key. On
	// backends whose dialect supports RETURNING the statement must end with
	// RETURNING id.
	InsertID(ctx context.Context, query string, args ...any) (int64, error)
}

// Backend is a live connection pool to one of the supported engines.
type Backend interface {
	Querier
	Dialect() Dialect
	// InTx runs fn inside a transaction, committing when fn returns nil.
	InTx(ctx context.Context, fn func(q Querier) error) error
	// IsUniqueViolation reports whether err came from a unique constraint.
	IsUniqueViolation(err error) bool
	Ping(ctx context.Context) error
	Close() error
}
