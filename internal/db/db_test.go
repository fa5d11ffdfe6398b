package db_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/db/dbtest"
	"github.com/essence-shop/essence/internal/models"
)

func TestParseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		dialect db.Dialect
		dsn     string
		wantErr bool
	}{
		{"default", config.DefaultDatabaseURL, db.Postgres, config.DefaultDatabaseURL, false},
		{"postgresql scheme", "postgresql://shop:pw@db:5432/essence?sslmode=disable", db.Postgres, "postgresql://shop:pw@db:5432/essence?sslmode=disable", false},
		{"sqlite scheme", "sqlite:///tmp/essence.db", db.SQLite, "/tmp/essence.db?_foreign_keys=on&_busy_timeout=5000", false},
		{"bare path", "essence.sqlite", db.SQLite, "essence.sqlite?_foreign_keys=on&_busy_timeout=5000", false},
		{"file dsn keeps options", "file:essence.db?cache=shared", db.SQLite, "file:essence.db?cache=shared", false},
		{"empty sqlite path", "sqlite://", "", "", true},
		{"mysql", "mysql://localhost/essence", "", "", true},
		{"empty", "", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dialect, dsn, err := db.ParseURL(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, db.ErrUnsupportedURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, dialect)
			assert.Equal(t, tt.dsn, dsn)
		})
	}
}

func TestManagerOpenClose(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config(t)
	dbtest.Migrate(t, cfg)

	m := db.NewManager(cfg, nil)

	h, err := m.Open(ctx)
	require.NoError(t, err)
	require.NotNil(t, h.Store())
	assert.Equal(t, db.SQLite, h.Dialect())
	assert.NoError(t, h.Ping(ctx))

	_, err = m.Open(ctx)
	assert.ErrorIs(t, err, db.ErrAlreadyOpen)

	require.NoError(t, m.Close())
	assert.Error(t, h.Ping(ctx), "pool must be released after Close")

	// Close is idempotent and the manager can be reopened
	require.NoError(t, m.Close())
	h, err = m.Open(ctx)
	require.NoError(t, err)
	assert.NoError(t, h.Ping(ctx))
	require.NoError(t, m.Close())
}

func TestManagerConcurrentOpen(t *testing.T) {
	cfg := dbtest.Config(t)
	dbtest.Migrate(t, cfg)
	m := db.NewManager(cfg, nil)
	t.Cleanup(func() { _ = m.Close() })

	const callers = 8
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
		failed int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Open(context.Background())
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				opened++
			} else if assert.ErrorIs(t, err, db.ErrAlreadyOpen) {
				failed++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, opened)
	assert.Equal(t, callers-1, failed)
}

func TestManagerOpenRequiresSchema(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config(t)

	_, err := db.NewManager(cfg, nil).Open(ctx)
	assert.ErrorIs(t, err, db.ErrSchemaNotMigrated)

	cfg.RequireSchema = false
	m := db.NewManager(cfg, nil)
	_, err = m.Open(ctx)
	assert.NoError(t, err)
	require.NoError(t, m.Close())
}

func TestManagerOpenModelMismatch(t *testing.T) {
	cfg := dbtest.Config(t)
	cfg.Apps = map[string]config.AppConfig{
		"models": {Models: []string{"user", "brand", "wishlist"}},
	}

	_, err := db.NewManager(cfg, nil).Open(context.Background())
	require.ErrorIs(t, err, db.ErrModelMismatch)
	assert.Contains(t, err.Error(), "wishlist")
	assert.Contains(t, err.Error(), "product")
}

func TestManagerOpenBadURL(t *testing.T) {
	cfg := dbtest.Config(t)
	cfg.URL = "redis://localhost"

	_, err := db.NewManager(cfg, nil).Open(context.Background())
	assert.ErrorIs(t, err, db.ErrUnsupportedURL)
}

func TestManagerOpenBadTimezone(t *testing.T) {
	cfg := dbtest.Config(t)
	cfg.UseTZ = false
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := db.NewManager(cfg, nil).Open(context.Background())
	assert.Error(t, err)
}

func TestMigrationsCreateRegistryTables(t *testing.T) {
	h := dbtest.Open(t)
	migrator := h.DB().Migrator()

	for _, module := range models.Registry() {
		for _, model := range module.Models {
			assert.True(t, migrator.HasTable(model), "module %s: table for %T missing", module.Name, model)
		}
	}
	assert.True(t, migrator.HasTable(db.MigrationsTable))
}
