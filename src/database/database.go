// backend/src/database/database.go
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/username/tradejournal/backend/src/config"
	"github.com/username/tradejournal/backend/src/logger"
)

// InitDB opens the SQLite database with WAL enabled and a busy timeout.
// modernc's driver is not safe for concurrent writers, so the pool is
// pinned to a single connection.
func InitDB(path string) (*sql.DB, error) {
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(on)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %s: %w", path, err)
	}
	logger.L.Info("Database connection established", slog.String("path", path))
	return db, nil
}

// RunMigrations applies all pending file migrations.
func RunMigrations(db *sql.DB) error {
	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating migration driver: %w", err)
	}

	sourceURL := "file://" + config.Cfg.MigrationsPath
	m, err := migrate.NewWithDatabaseInstance(sourceURL, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrator from %s: %w", sourceURL, err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("applying migrations: %w", err)
	}
	logger.L.Info("Database migrations are up to date")
	return nil
}
