package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMigrations(t *testing.T) {
	pool := TestDB(t)
	ctx := context.Background()

	err := RunMigrations(ctx, pool)
	require.NoError(t, err)

	for _, table := range []string{"rooms", "tenants", "payments", "reports", "booking", "telegram_sessions"} {
		var tableExists bool
		err = pool.QueryRow(ctx, `
			SELECT EXISTS (
				SELECT FROM information_schema.tables
				WHERE table_name = $1
			)
		`, table).Scan(&tableExists)
		require.NoError(t, err)
		require.True(t, tableExists, "table %s should exist", table)
	}

	// Migrations are idempotent; a second run must not fail.
	err = RunMigrations(ctx, pool)
	require.NoError(t, err)
}
