package storage

import (
	"context"
	"strings"
)

// DefaultSQLitePath is the database file used when no connection string is set.
const DefaultSQLitePath = "appointments.db"

// Options selects and configures a backend.
type Options struct {
	// DatabaseURL selects Postgres when non-empty.
	DatabaseURL       string
	SQLitePath        string
	SQLiteForeignKeys bool
	MaxConns          int
}

// UsePostgres reports whether the networked backend is selected.
func (o Options) UsePostgres() bool {
	return strings.TrimSpace(o.DatabaseURL) != ""
}

func (o Options) sqlitePath() string {
	if strings.TrimSpace(o.SQLitePath) == "" {
		return DefaultSQLitePath
	}
	return o.SQLitePath
}

// Open returns the backend selected by opts.
func Open(ctx context.Context, opts Options) (Backend, error) {
	if opts.UsePostgres() {
		return NewPostgresBackend(ctx, strings.TrimSpace(opts.DatabaseURL), opts.MaxConns)
	}
	return NewSQLiteBackend(ctx, opts.sqlitePath(), opts.SQLiteForeignKeys)
}
