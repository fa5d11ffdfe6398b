package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/db/dbtest"
)

func TestMigrationFiles(t *testing.T) {
	for _, dialect := range []db.Dialect{db.Postgres, db.SQLite} {
		files, err := db.MigrationFiles(dialect)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"000001_create_catalog.up.sql",
			"000002_create_orders.up.sql",
		}, files, "dialect %s", dialect)

		latest, err := db.LatestVersion(dialect)
		require.NoError(t, err)
		assert.Equal(t, uint(2), latest)
	}
}

func TestMigratorUpDownStatus(t *testing.T) {
	ctx := context.Background()
	cfg := dbtest.Config(t)
	m := db.NewMigrator(cfg.URL, nil)

	status, err := m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.Version)
	assert.True(t, status.Pending())

	require.NoError(t, m.Up(ctx))
	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(2), status.Version)
	assert.False(t, status.Pending())
	assert.False(t, status.Dirty)

	// Applying again is a no-op
	require.NoError(t, m.Up(ctx))

	require.NoError(t, m.Down(ctx, 1))
	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(1), status.Version)
	assert.True(t, status.Pending())

	require.NoError(t, m.Down(ctx, 0))
	status, err = m.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint(0), status.Version)
}
