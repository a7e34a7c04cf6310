package database

import (
	"embed"
	"errors"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RunMigrations applies the embedded SQL migrations on Postgres. SQLite has
// no stored functions, so it only gets the gorm schema.
func RunMigrations(db *gorm.DB, dsn string) error {
	if !IsPostgresDSN(dsn) {
		if err := AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		log.Println("db migrated successfully (gorm)")
		return nil
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("cannot create a new migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrate up: %w", err)
	}
	log.Println("db migrated successfully")
	return nil
}

// MigrationVersion reports the applied version on Postgres.
func MigrationVersion(dsn string) (uint, bool, error) {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return 0, false, err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()
	return m.Version()
}
