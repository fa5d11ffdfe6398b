// Package dbtest provisions throwaway migrated SQLite databases for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/models"
)

// Config returns a descriptor for a fresh SQLite file in the test's temp dir
func Config(t testing.TB) config.DatabaseConfig {
	t.Helper()
	return config.DatabaseConfig{
		URL: "sqlite://" + filepath.Join(t.TempDir(), "essence.db"),
		Apps: map[string]config.AppConfig{
			"models": {Models: config.DefaultModelModules, DefaultConnection: "default"},
		},
		DefaultConnection: "default",
		UseTZ:             true,
		MaxOpenConns:      1,
		ConnectTimeout:    5 * time.Second,
		RequireSchema:     true,
	}
}

// Migrate applies every embedded migration to the descriptor's database
func Migrate(t testing.TB, cfg config.DatabaseConfig) {
	t.Helper()
	require.NoError(t, db.NewMigrator(cfg.URL, nil).Up(context.Background()))
}

// Open migrates a fresh database and opens it; the manager is closed on cleanup
func Open(t testing.TB) *db.Handle {
	t.Helper()
	cfg := Config(t)
	Migrate(t, cfg)

	manager := db.NewManager(cfg, nil)
	handle, err := manager.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = manager.Close() })
	return handle
}

// Fixture is a minimal catalog: one user, one brand and one product
type Fixture struct {
	User    *models.User
	Brand   *models.Brand
	Product *models.Product
}

// Seed creates a fixture whose product costs 45000 and has the given stock
func Seed(t testing.TB, store db.Database, stock int) Fixture {
	t.Helper()
	ctx := context.Background()

	user := &models.User{Email: "jiwoo@example.com", PasswordHash: "x", Name: "Jiwoo", Active: true}
	require.NoError(t, store.CreateUser(ctx, user))

	brand := &models.Brand{Name: "Lemaire"}
	require.NoError(t, store.CreateBrand(ctx, brand))

	product := &models.Product{
		BrandID: brand.ID,
		Name:    "Twisted Shirt",
		Price:   decimal.NewFromInt(45000),
		Stock:   stock,
		Active:  true,
	}
	require.NoError(t, store.CreateProduct(ctx, product))

	return Fixture{User: user, Brand: brand, Product: product}
}
