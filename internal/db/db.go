package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/logger"
	"github.com/essence-shop/essence/internal/models"
)

// Dialect identifies the SQL backend behind a database URL
type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite"
)

// ParseURL derives the dialect and driver DSN from a database URL.
// postgres:// and postgresql:// URLs are passed through untouched; sqlite://
// URLs, file: DSNs and bare *.db / *.sqlite paths select SQLite.
func ParseURL(raw string) (Dialect, string, error) {
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		if _, err := url.Parse(raw); err != nil {
			return "", "", fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		return Postgres, raw, nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		return SQLite, sqliteDSN(path), nil
	case strings.HasPrefix(raw, "file:"),
		strings.HasSuffix(raw, ".db"),
		strings.HasSuffix(raw, ".sqlite"):
		return SQLite, sqliteDSN(raw), nil
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, raw)
	}
}

// sqliteDSN enables foreign keys and a busy timeout unless the caller set query options
func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_foreign_keys=on&_busy_timeout=5000"
}

// Handle is an open connection pool. It can only be obtained from Manager.Open.
type Handle struct {
	gorm    *gorm.DB
	sqlDB   *sql.DB
	dialect Dialect
	store   *Store
}

// DB returns the gorm session bound to the pool
func (h *Handle) DB() *gorm.DB {
	return h.gorm
}

// Dialect returns the backend dialect
func (h *Handle) Dialect() Dialect {
	return h.dialect
}

// Store returns the repository for the domain models
func (h *Handle) Store() *Store {
	return h.store
}

// SQLDB returns the connection pool underneath gorm
func (h *Handle) SQLDB() *sql.DB {
	return h.sqlDB
}

// Ping checks the database connection
func (h *Handle) Ping(ctx context.Context) error {
	return h.sqlDB.PingContext(ctx)
}

// Manager owns the lifecycle of the process-wide connection pool.
// Open and Close are serialised: a second Open without Close fails with
// ErrAlreadyOpen, and Close on a closed manager is a no-op.
type Manager struct {
	cfg config.DatabaseConfig
	log *logger.Logger

	mu     sync.Mutex
	handle *Handle
}

// NewManager creates a manager for the given connection descriptor
func NewManager(cfg config.DatabaseConfig, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	return &Manager{cfg: cfg, log: log.Named("db")}
}

// Open establishes the pool, checks the model registry and, when required,
// that every embedded migration has been applied.
func (m *Manager) Open(ctx context.Context) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle != nil {
		return nil, ErrAlreadyOpen
	}

	if err := models.CheckModules(m.cfg.Models()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelMismatch, err)
	}

	dialect, dsn, err := ParseURL(m.cfg.URL)
	if err != nil {
		return nil, err
	}

	nowFunc, err := m.nowFunc()
	if err != nil {
		return nil, err
	}

	var dialector gorm.Dialector
	switch dialect {
	case Postgres:
		dialector = postgres.Open(dsn)
	case SQLite:
		dialector = sqlite.Open(dsn)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger:               m.gormLogger(),
		NowFunc:              nowFunc,
		TranslateError:       true,
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	if m.cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(m.cfg.MaxOpenConns)
	}
	if m.cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(m.cfg.MaxIdleConns)
	}
	if m.cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(m.cfg.ConnMaxLifetime)
	}
	if dialect == SQLite && strings.Contains(dsn, ":memory:") {
		// Every connection to :memory: is a separate database.
		sqlDB.SetMaxOpenConns(1)
	}

	pingCtx := ctx
	if m.cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, m.cfg.ConnectTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if m.cfg.RequireSchema {
		status, err := NewMigrator(m.cfg.URL, m.log).Status(ctx)
		if err != nil {
			sqlDB.Close()
			return nil, fmt.Errorf("failed to read migration status: %w", err)
		}
		if status.Dirty || status.Pending() {
			sqlDB.Close()
			return nil, fmt.Errorf("%w: at version %d of %d (dirty=%t), run 'essence migrate up'",
				ErrSchemaNotMigrated, status.Version, status.Latest, status.Dirty)
		}
	}

	h := &Handle{
		gorm:    gdb,
		sqlDB:   sqlDB,
		dialect: dialect,
	}
	h.store = NewStore(gdb)
	m.handle = h

	m.log.Info("database opened (dialect=%s, max_open=%d)", dialect, m.cfg.MaxOpenConns)
	return h, nil
}

// Close releases every pooled connection. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.handle == nil {
		return nil
	}

	err := m.handle.sqlDB.Close()
	m.handle = nil
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.log.Info("database closed")
	return nil
}

// nowFunc stamps rows in the configured timezone. With UseTZ the clock is UTC.
func (m *Manager) nowFunc() (func() time.Time, error) {
	if m.cfg.UseTZ || m.cfg.Timezone == "" {
		return func() time.Time { return time.Now().UTC() }, nil
	}
	loc, err := time.LoadLocation(m.cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid database timezone %q: %w", m.cfg.Timezone, err)
	}
	return func() time.Time { return time.Now().In(loc) }, nil
}

// printfWriter routes gorm's log lines through our logger
type printfWriter struct {
	log *logger.Logger
}

func (w printfWriter) Printf(format string, v ...interface{}) {
	w.log.Info(format, v...)
}

func (m *Manager) gormLogger() gormlogger.Interface {
	level := gormlogger.Warn
	if m.log.IsDebugEnabled() {
		level = gormlogger.Info
	}
	return gormlogger.New(printfWriter{log: m.log}, gormlogger.Config{
		SlowThreshold:             500 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
	})
}
