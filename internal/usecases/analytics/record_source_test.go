package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/infrastructure/repository"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newSQLiteService monta o serviço sobre os repositórios reais com um SQLite em memória
func newSQLiteService(t *testing.T) (*Service, *database.Connection) {
	t.Helper()

	ctx := context.Background()
	conn, err := database.NewConnection(ctx, config.Database{
		Driver: database.DriverSQLite,
		DSN:    ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	service := NewService(
		repository.NewAppointmentRepository(conn),
		repository.NewUserRepository(conn),
		WithClock(func() time.Time { return referenceNow }),
		WithLocation(time.UTC),
	)

	return service, conn
}

func TestService_RegistroInvalidoNaoDerrubaVisao(t *testing.T) {
	service, conn := newSQLiteService(t)

	const insert = `INSERT INTO appointments (id, date, status, service, total_amount, customer_email, start_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	rows := [][]any{
		{"a1", "2026-10-15", "confirmed", "Corte de Cabelo", 100.0, "ana@email.com", "14:30"},
		{"a2", "2026-10-15", "confirmed", "Manicure", "n/a", "bia@email.com", "10:00"},
		{"a3", "2026-10-14", "confirmed", "Escova", 50.25, "carla@email.com", "09:00"},
	}
	for _, row := range rows {
		_, err := conn.ExecContext(context.Background(), insert, row...)
		require.NoError(t, err)
	}

	ctx := context.Background()

	stats := service.BusinessStats(ctx)
	assert.Equal(t, domain.SourceComputed, stats.Source)
	assert.NoError(t, stats.Err)
	assert.Equal(t, 2, stats.Data.TodayAppointments)
	assert.Equal(t, 150.25, stats.Data.MonthlyRevenue)
	assert.Equal(t, 2, stats.Data.ActiveClients)

	ranking := service.ServicePerformance(ctx)
	assert.Equal(t, domain.SourceComputed, ranking.Source)
	require.Len(t, ranking.Data, 2)

	names := []string{ranking.Data[0].Name, ranking.Data[1].Name}
	assert.ElementsMatch(t, []string{"Corte de Cabelo", "Escova"}, names)

	quick := service.QuickStats(ctx)
	assert.Equal(t, domain.SourceComputed, quick.Source)
	assert.NoError(t, quick.Err)
}
