//go:build integration

package integration_test

import (
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yogaflow/yoga-sessions/internal/dbtest/postgrestest"
)

func TestMigrate(t *testing.T) {
	const cmdName = "migrate"

	ctx := t.Context()

	istat := initInfra(t, cmdName)
	defer istat.Close(ctx)

	// This test doesn't use PreparePostgres because it needs an empty DB
	port, terminate := postgrestest.StartEmpty(ctx)
	defer terminate(ctx)

	istat.UsePostgres(port)
	istat.PrepareConfig(t)

	// running twice must be a no-op the second time
	istat.Run(t, cmdName)
	istat.Run(t, cmdName)

	conn, err := pgx.Connect(ctx, postgrestest.ConnStr(port))
	require.NoError(t, err)
	defer conn.Close(ctx)

	for _, table := range []string{"poses", "sessions"} {
		var exists bool
		err := conn.QueryRow(ctx, `SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = $1);`, table).Scan(&exists)
		require.NoError(t, err)
		assert.True(t, exists, "table %s is missing", table)
	}
}
