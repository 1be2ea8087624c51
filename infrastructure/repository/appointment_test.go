package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAppointments(t *testing.T, repo *appointmentRepository) {
	t.Helper()

	const insert = `INSERT INTO appointments (id, date, status, service, total_amount, customer_email, start_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	exec(t, repo.conn, insert, "a1", "2026-10-15", "confirmed", "Corte de Cabelo", 120.5, "ana@email.com", "14:30")
	exec(t, repo.conn, insert, "a2", "2026-10-15", "canceled", "Manicure", 60.0, "bia@email.com", "10:00")
	exec(t, repo.conn, insert, "a3", "2026-10-01", "confirmed", "Coloração", nil, nil, nil)
	exec(t, repo.conn, insert, "a4", "2026-08-20", "confirmed", "Corte de Cabelo", 80.0, "ana@email.com", "09:15")
}

func TestAppointmentRepository_FindAppointments(t *testing.T) {
	conn := newTestConnection(t)
	repo := &appointmentRepository{conn: conn}
	seedAppointments(t, repo)

	tests := []struct {
		name     string
		query    domain.AppointmentQuery
		validate func(t *testing.T, result []domain.Appointment)
	}{
		{
			name:  "Sem filtros retorna todos os agendamentos",
			query: domain.AppointmentQuery{},
			validate: func(t *testing.T, result []domain.Appointment) {
				assert.Len(t, result, 4)
			},
		},
		{
			name: "Filtro por data e status confirmado",
			query: domain.AppointmentQuery{
				Date:   "2026-10-15",
				Status: domain.AppointmentStatusConfirmed,
			},
			validate: func(t *testing.T, result []domain.Appointment) {
				require.Len(t, result, 1)
				assert.Equal(t, "2026-10-15", result[0].Date)
				assert.Equal(t, 120.5, result[0].Amount())
				require.NotNil(t, result[0].StartTime)
				assert.Equal(t, "14:30", *result[0].StartTime)
			},
		},
		{
			name: "Janela a partir de uma data com ordenação decrescente",
			query: domain.AppointmentQuery{
				DateFrom:        "2026-09-15",
				OrderByDateDesc: true,
			},
			validate: func(t *testing.T, result []domain.Appointment) {
				require.Len(t, result, 3)
				assert.Equal(t, "2026-10-15", result[0].Date)
				assert.Equal(t, "2026-10-01", result[2].Date)
			},
		},
		{
			name: "Valores nulos viram ponteiros nulos",
			query: domain.AppointmentQuery{
				Date: "2026-10-01",
			},
			validate: func(t *testing.T, result []domain.Appointment) {
				require.Len(t, result, 1)
				assert.Nil(t, result[0].TotalAmount)
				assert.Nil(t, result[0].CustomerEmail)
				assert.Nil(t, result[0].StartTime)
				assert.Equal(t, 0.0, result[0].Amount())
			},
		},
		{
			name: "Projeção preenche apenas os campos pedidos",
			query: domain.AppointmentQuery{
				Fields: []string{domain.AppointmentFieldCustomerEmail},
				Status: domain.AppointmentStatusCanceled,
			},
			validate: func(t *testing.T, result []domain.Appointment) {
				require.Len(t, result, 1)
				assert.Equal(t, "bia@email.com", *result[0].CustomerEmail)
				assert.Empty(t, result[0].Date)
				assert.Nil(t, result[0].Service)
			},
		},
		{
			name: "Limite de linhas",
			query: domain.AppointmentQuery{
				OrderByDateDesc: true,
				Limit:           2,
			},
			validate: func(t *testing.T, result []domain.Appointment) {
				assert.Len(t, result, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := repo.FindAppointments(context.Background(), tt.query)
			require.NoError(t, err)
			tt.validate(t, result)
		})
	}
}

func TestAppointmentRepository_FindAppointments_CampoDesconhecido(t *testing.T) {
	repo := NewAppointmentRepository(newTestConnection(t))

	_, err := repo.FindAppointments(context.Background(), domain.AppointmentQuery{
		Fields: []string{"password"},
	})

	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestAppointmentRepository_FindAppointments_RegistroInvalido(t *testing.T) {
	conn := newTestConnection(t)
	repo := NewAppointmentRepository(conn)

	const insert = `INSERT INTO appointments (id, date, status, service, total_amount, customer_email, start_time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	exec(t, conn, insert, "a1", "2026-10-15", "confirmed", "Corte de Cabelo", 100.0, "ana@email.com", "14:30")
	exec(t, conn, insert, "a2", "2026-10-15", "confirmed", "Manicure", "n/a", "bia@email.com", "10:00")
	exec(t, conn, insert, "a3", "2026-10-14", "confirmed", "Escova", 50.25, "carla@email.com", "09:00")

	t.Run("Linha com valor inválido é ignorada", func(t *testing.T) {
		result, err := repo.FindAppointments(context.Background(), domain.AppointmentQuery{
			Status: domain.AppointmentStatusConfirmed,
		})

		require.NoError(t, err)
		require.Len(t, result, 2)

		total := 0.0
		for _, appointment := range result {
			total += appointment.Amount()
		}
		assert.Equal(t, 150.25, total)
	})

	t.Run("Projeção sem o campo inválido mantém a linha", func(t *testing.T) {
		result, err := repo.FindAppointments(context.Background(), domain.AppointmentQuery{
			Fields: []string{domain.AppointmentFieldService},
		})

		require.NoError(t, err)
		assert.Len(t, result, 3)
	})
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		value    sql.NullString
		expected *float64
		wantErr  bool
	}{
		{name: "Nulo", value: sql.NullString{}, expected: nil},
		{name: "Decimal do Postgres", value: sql.NullString{String: "120.50", Valid: true}, expected: floatPtr(120.5)},
		{name: "Inteiro", value: sql.NullString{String: "60", Valid: true}, expected: floatPtr(60)},
		{name: "Texto inválido", value: sql.NullString{String: "n/a", Valid: true}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, err := parseAmount(tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedRecord)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, amount)
		})
	}
}
