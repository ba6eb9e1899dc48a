package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/webhooks/internal/database"
)

// RunMigrations migrates the configured database using migrations/postgresql or
// migrations/mysql relative to the working directory.
//
// steps == 0 applies every pending migration. A non-zero value moves that many
// versions, so -1 rolls back the latest one. Having nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, dbDriver, dbConnectionString string, steps int) error {
	logger.Info("running database migrations", slog.String("driver", dbDriver), slog.Int("steps", steps))

	m, err := migrate.New(migrationSourceURL(dbDriver), migrationDatabaseURL(dbDriver, dbConnectionString))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if steps == 0 {
		err = m.Up()
	} else {
		err = m.Steps(steps)
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	switch {
	case errors.Is(err, migrate.ErrNilVersion):
		logger.Info("migrations completed, database is empty")
	case err != nil:
		return fmt.Errorf("failed to read migration version: %w", err)
	default:
		logger.Info("migrations completed", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))
	}
	return nil
}

func migrationSourceURL(dbDriver string) string {
	if dbDriver == database.DriverMySQL {
		return "file://migrations/mysql"
	}
	return "file://migrations/postgresql"
}

// migrationDatabaseURL adapts a database/sql DSN to the URL golang-migrate expects.
// The mysql driver DSN ("user:pass@tcp(host)/db") needs a mysql:// scheme; postgres
// connection strings are already URLs.
func migrationDatabaseURL(dbDriver, dbConnectionString string) string {
	if dbDriver == database.DriverMySQL {
		return "mysql://" + dbConnectionString
	}
	return dbConnectionString
}
