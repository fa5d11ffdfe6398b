package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/essence-shop/essence/internal/logger"
)

// Migrations are versioned per dialect and compiled into the binary.
//
//go:embed migrations
var migrationsFS embed.FS

// MigrationsTable is the bookkeeping table golang-migrate maintains
const MigrationsTable = "schema_migrations"

// MigrationStatus describes how far a database is behind the embedded migrations
type MigrationStatus struct {
	Version uint `json:"version"`
	Latest  uint `json:"latest"`
	Dirty   bool `json:"dirty"`
}

// Pending reports whether migrations remain to be applied
func (s MigrationStatus) Pending() bool {
	return s.Version < s.Latest
}

// Migrator applies the embedded migrations over its own short-lived connection,
// so it never disturbs a serving pool.
type Migrator struct {
	url string
	log *logger.Logger
}

// NewMigrator creates a migrator for a database URL
func NewMigrator(rawURL string, log *logger.Logger) *Migrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{url: rawURL, log: log}
}

// Up applies every pending migration
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(ctx, func(mg *migrate.Migrate) error {
		return mg.Up()
	})
}

// Down reverts the given number of migrations; steps <= 0 reverts all of them
func (m *Migrator) Down(ctx context.Context, steps int) error {
	return m.run(ctx, func(mg *migrate.Migrate) error {
		if steps <= 0 {
			return mg.Down()
		}
		return mg.Steps(-steps)
	})
}

// Status reports the applied and latest migration versions
func (m *Migrator) Status(ctx context.Context) (MigrationStatus, error) {
	var status MigrationStatus

	dialect, _, err := ParseURL(m.url)
	if err != nil {
		return status, err
	}
	latest, err := LatestVersion(dialect)
	if err != nil {
		return status, err
	}
	status.Latest = latest

	err = m.with(ctx, func(mg *migrate.Migrate) error {
		version, dirty, err := mg.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			return nil
		}
		if err != nil {
			return err
		}
		status.Version = version
		status.Dirty = dirty
		return nil
	})
	return status, err
}

func (m *Migrator) run(ctx context.Context, step func(*migrate.Migrate) error) error {
	return m.with(ctx, func(mg *migrate.Migrate) error {
		if err := step(mg); err != nil {
			if errors.Is(err, migrate.ErrNoChange) {
				m.log.Info("no migration to apply")
				return nil
			}
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		version, dirty, err := mg.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			return err
		}
		m.log.Info("migrations applied (version=%d, dirty=%t)", version, dirty)
		return nil
	})
}

// with opens a dedicated connection and migrate instance, and tears both down afterwards
func (m *Migrator) with(ctx context.Context, fn func(*migrate.Migrate) error) error {
	dialect, dsn, err := ParseURL(m.url)
	if err != nil {
		return err
	}

	src, err := iofs.New(migrationsFS, migrationsDir(dialect))
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	var (
		conn       *sql.DB
		driver     database.Driver
		driverName string
	)
	switch dialect {
	case Postgres:
		driverName = "pgx5"
		conn, err = sql.Open("pgx", dsn)
		if err == nil {
			driver, err = migratepgx.WithInstance(conn, &migratepgx.Config{MigrationsTable: MigrationsTable})
		}
	case SQLite:
		driverName = "sqlite3"
		conn, err = sql.Open("sqlite3", dsn)
		if err == nil {
			driver, err = sqlite3.WithInstance(conn, &sqlite3.Config{MigrationsTable: MigrationsTable})
		}
	}
	if err != nil {
		if conn != nil {
			conn.Close()
		}
		return fmt.Errorf("failed to create %s migration driver: %w", dialect, err)
	}

	mg, err := migrate.NewWithInstance("iofs", src, driverName, driver)
	if err != nil {
		driver.Close()
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer mg.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			mg.GracefulStop <- true
		case <-done:
		}
	}()

	return fn(mg)
}

func migrationsDir(dialect Dialect) string {
	return "migrations/" + string(dialect)
}

// LatestVersion returns the highest embedded migration version for a dialect
func LatestVersion(dialect Dialect) (uint, error) {
	src, err := iofs.New(migrationsFS, migrationsDir(dialect))
	if err != nil {
		return 0, fmt.Errorf("failed to load embedded migrations: %w", err)
	}
	defer src.Close()

	return lastVersion(src)
}

func lastVersion(src source.Driver) (uint, error) {
	version, err := src.First()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	for {
		next, err := src.Next(version)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return version, nil
			}
			return 0, err
		}
		version = next
	}
}

// MigrationFiles lists the embedded up-migrations for a dialect, in order
func MigrationFiles(dialect Dialect) ([]string, error) {
	entries, err := fs.ReadDir(migrationsFS, migrationsDir(dialect))
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".up.sql") {
			files = append(files, e.Name())
		}
	}
	return files, nil
}
