package storage

import (
	"strconv"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
)

// Dialect describes the SQL flavour of a backend.
type Dialect struct {
	name      string
	builder   goqu.DialectWrapper
	returning bool
}

var (
	// PostgresDialect renders $n placeholders and supports RETURNING.
	PostgresDialect = Dialect{name: "postgres", builder: goqu.Dialect("postgres"), returning: true}
	// SQLiteDialect renders ? placeholders; generated keys come from LastInsertId.
	SQLiteDialect = Dialect{name: "sqlite", builder: goqu.Dialect("sqlite3")}
)

// Name identifies the backend engine ("postgres" or "sqlite").
func (d Dialect) Name() string {
	return d.name
}

// Placeholder returns the token marking the n-th (1-based) statement parameter.
func (d Dialect) Placeholder(n int) string {
	if d.name == PostgresDialect.name {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Builder returns the goqu dialect used to render statements for this backend.
func (d Dialect) Builder() goqu.DialectWrapper {
	return d.builder
}

// SupportsReturning reports whether INSERT ... RETURNING can be used to read
// generated keys.
func (d Dialect) SupportsReturning() bool {
	return d.returning
}
