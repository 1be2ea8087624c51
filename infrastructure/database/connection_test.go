package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection_DriverNaoSuportado(t *testing.T) {
	_, err := NewConnection(context.Background(), config.Database{Driver: "mysql", DSN: "x"})
	assert.Error(t, err)
}

func TestConnection_SQLite(t *testing.T) {
	ctx := context.Background()

	conn, err := NewConnection(ctx, config.Database{Driver: DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	assert.Equal(t, DriverSQLite, conn.Driver())
	assert.Equal(t, squirrel.Question, conn.Placeholder())
	require.NoError(t, conn.Ping(ctx))

	t.Run("Migração é idempotente", func(t *testing.T) {
		require.NoError(t, conn.Migrate(ctx))
		require.NoError(t, conn.Migrate(ctx))

		var count int
		err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM analytics_snapshots").Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("Transação desfeita em caso de erro", func(t *testing.T) {
		err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, "INSERT INTO users (id, profile_completed) VALUES ('u1', 1)"); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		var count int
		require.NoError(t, conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count))
		assert.Equal(t, 0, count)
	})
}
