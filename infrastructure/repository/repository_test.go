package repository

import (
	"context"
	"testing"

	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/stretchr/testify/require"
)

// newTestConnection abre um SQLite em memória com o schema aplicado
func newTestConnection(t *testing.T) *database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, config.Database{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.Migrate(ctx))
	return conn
}

func exec(t *testing.T, conn *database.Connection, query string, args ...any) {
	t.Helper()
	_, err := conn.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}

func stringPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}
