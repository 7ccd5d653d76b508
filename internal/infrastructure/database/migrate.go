package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/forgeplanner/core/internal/infrastructure/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	driver string
}

// NewMigrator builds a migrator bound to an open database.
func NewMigrator(db *DB) (*Migrator, error) {
	var (
		driver database.Driver
		err    error
	)
	switch db.Driver {
	case config.DriverPostgres:
		driver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for %q", db.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, db.Driver, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	return &Migrator{m: m, driver: db.Driver}, nil
}

// Up applies pending migrations. steps <= 0 means all. Returns false when nothing changed.
func (mg *Migrator) Up(steps int) (bool, error) {
	var err error
	if steps > 0 {
		err = mg.m.Steps(steps)
	} else {
		err = mg.m.Up()
	}
	return applied(err)
}

// Down reverts migrations. steps <= 0 means all.
func (mg *Migrator) Down(steps int) (bool, error) {
	var err error
	if steps > 0 {
		err = mg.m.Steps(-steps)
	} else {
		err = mg.m.Down()
	}
	return applied(err)
}

// Version reports the current schema version.
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// Close releases the connection held by the migrator. The sqlite driver
// closes the shared handle on Close, so it is left alone.
func (mg *Migrator) Close() error {
	if mg.driver != config.DriverPostgres {
		return nil
	}
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

func applied(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migration failed: %w", err)
	}
	return true, nil
}

// OpenMigrated opens the configured SQL store and brings its schema up to date.
func OpenMigrated(cfg config.StorageConfig) (*DB, error) {
	db, err := New(cfg)
	if err != nil {
		return nil, err
	}
	mg, err := NewMigrator(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	defer mg.Close()

	if _, err := mg.Up(0); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
