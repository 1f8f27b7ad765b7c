// Package db owns the schema. Migrations are embedded so the binary can
// migrate a database without the source tree.
package db

import (
	"embed"
	"errors"
	"fmt"

	"jobmarket-backend/pkg/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NewMigrator builds a migrator for dsn. An empty sourceURL uses the embedded migrations.
func NewMigrator(dsn, sourceURL string) (*migrate.Migrate, error) {
	if sourceURL != "" {
		m, err := migrate.New(sourceURL, dsn)
		if err != nil {
			return nil, fmt.Errorf("init migrator failed: %w", err)
		}
		return m, nil
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return nil, fmt.Errorf("init migrator failed: %w", err)
	}
	return m, nil
}

// Up applies all pending migrations. An up-to-date database is not an error.
func Up(dsn, sourceURL string) error {
	m, err := NewMigrator(dsn, sourceURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Log.Info("database schema is up to date")
			return nil
		}
		return fmt.Errorf("migrate up failed: %w", err)
	}
	version, _, _ := m.Version()
	logger.Log.Info("database migrated", "version", version)
	return nil
}

// Down rolls back steps migrations; steps <= 0 rolls back everything.
func Down(dsn, sourceURL string, steps int) error {
	m, err := NewMigrator(dsn, sourceURL)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if steps > 0 {
		err = m.Steps(-steps)
	} else {
		err = m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down failed: %w", err)
	}
	return nil
}
