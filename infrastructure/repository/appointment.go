package repository

//go:generate mockgen -source=appointment.go -destination=mocks/appointment_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/log"
	"github.com/pkg/errors"
)

const (
	appointmentsTable = "appointments"
)

// ErrMalformedRecord marca uma linha com campo em formato inválido; a linha é ignorada e a leitura continua
var ErrMalformedRecord = errors.New("registro com formato inválido")

// Colunas lidas para cada campo de agendamento
var appointmentColumns = map[string]string{
	domain.AppointmentFieldDate:          "CAST(date AS TEXT)",
	domain.AppointmentFieldStatus:        "status",
	domain.AppointmentFieldService:       "service",
	domain.AppointmentFieldTotalAmount:   "total_amount",
	domain.AppointmentFieldCustomerEmail: "customer_email",
	domain.AppointmentFieldStartTime:     "CAST(start_time AS TEXT)",
}

type AppointmentRepository interface {
	FindAppointments(ctx context.Context, query domain.AppointmentQuery) ([]domain.Appointment, error)
}

type appointmentRepository struct {
	conn *database.Connection
}

func NewAppointmentRepository(conn *database.Connection) AppointmentRepository {
	return &appointmentRepository{
		conn: conn,
	}
}

func (r *appointmentRepository) FindAppointments(ctx context.Context, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	fields := query.Fields
	if len(fields) == 0 {
		fields = domain.AppointmentFields
	}

	if err := domain.ValidateAppointmentFields(fields); err != nil {
		return nil, err
	}

	columns := make([]string, 0, len(fields))
	for _, field := range fields {
		columns = append(columns, appointmentColumns[field])
	}

	queryBuilder := squirrel.
		Select(columns...).
		From(appointmentsTable).
		PlaceholderFormat(r.conn.Placeholder())

	if query.Date != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"date": query.Date})
	}

	if query.DateFrom != "" {
		queryBuilder = queryBuilder.Where(squirrel.GtOrEq{"date": query.DateFrom})
	}

	if query.Status != "" {
		queryBuilder = queryBuilder.Where(squirrel.Eq{"status": query.Status})
	}

	if query.OrderByDateDesc {
		queryBuilder = queryBuilder.OrderBy("date DESC")
	}

	if query.Limit > 0 {
		queryBuilder = queryBuilder.Limit(query.Limit)
	}

	appointmentsSQL, args, err := queryBuilder.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "erro ao construir a query de agendamentos")
	}

	rows, err := r.conn.QueryContext(ctx, appointmentsSQL, args...)
	if err != nil {
		return nil, errors.Wrap(err, "erro ao consultar agendamentos")
	}
	defer rows.Close()

	appointments := make([]domain.Appointment, 0)
	for rows.Next() {
		appointment, err := scanAppointment(rows, fields)
		if errors.Is(err, ErrMalformedRecord) {
			log.ForContext(ctx).WithError(err).Warn("Agendamento com formato inválido ignorado")
			continue
		}
		if err != nil {
			return nil, errors.Wrap(err, "erro ao escanear agendamento")
		}
		appointments = append(appointments, appointment)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "erro durante a iteração de agendamentos")
	}

	return appointments, nil
}

func scanAppointment(rows *sql.Rows, fields []string) (domain.Appointment, error) {
	var (
		date, status, service, email, startTime, amount sql.NullString
	)

	dest := make([]any, 0, len(fields))
	for _, field := range fields {
		switch field {
		case domain.AppointmentFieldDate:
			dest = append(dest, &date)
		case domain.AppointmentFieldStatus:
			dest = append(dest, &status)
		case domain.AppointmentFieldService:
			dest = append(dest, &service)
		case domain.AppointmentFieldTotalAmount:
			dest = append(dest, &amount)
		case domain.AppointmentFieldCustomerEmail:
			dest = append(dest, &email)
		case domain.AppointmentFieldStartTime:
			dest = append(dest, &startTime)
		}
	}

	if err := rows.Scan(dest...); err != nil {
		return domain.Appointment{}, err
	}

	totalAmount, err := parseAmount(amount)
	if err != nil {
		return domain.Appointment{}, err
	}

	return domain.Appointment{
		Date:          date.String,
		Status:        status.String,
		Service:       nullableString(service),
		TotalAmount:   totalAmount,
		CustomerEmail: nullableString(email),
		StartTime:     nullableString(startTime),
	}, nil
}

func nullableString(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}

// parseAmount aceita o valor como texto para que um registro inválido não derrube a consulta inteira
func parseAmount(value sql.NullString) (*float64, error) {
	if !value.Valid {
		return nil, nil
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(value.String), 64)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedRecord, "total_amount %q", value.String)
	}
	return &amount, nil
}
