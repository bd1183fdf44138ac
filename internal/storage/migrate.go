package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationsFS embed.FS

// NewMigrator returns a golang-migrate instance bound to the backend selected
// by opts and the embedded migrations for its dialect. The migrator owns its
// own database handle; Close releases it.
func NewMigrator(opts Options) (*migrate.Migrate, error) {
	var (
		db         *sql.DB
		driver     database.Driver
		driverName string
		dir        string
		err        error
	)

	if opts.UsePostgres() {
		driverName, dir = "postgres", "migrations/postgres"
		if db, err = sql.Open("pgx", opts.DatabaseURL); err != nil {
			return nil, fmt.Errorf("storage: open migration db: %w", err)
		}
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	} else {
		driverName, dir = "sqlite", "migrations/sqlite"
		if db, err = sql.Open("sqlite", SQLiteDSN(opts.sqlitePath(), opts.SQLiteForeignKeys)); err != nil {
			return nil, fmt.Errorf("storage: open migration db: %w", err)
		}
		driver, err = migratesqlite.WithInstance(db, &migratesqlite.Config{})
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, dir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: create migrator: %w", err)
	}
	return m, nil
}

// Migrate applies every pending migration. An up-to-date schema is not an error.
func Migrate(opts Options) error {
	m, err := NewMigrator(opts)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("storage: migrate up: %w", err)
	}
	return nil
}
