package supabase

import (
	"context"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/margareth/analytics-api/infrastructure/integrator/supabase/supabaseclient"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	appointmentsTable = "appointments"
	usersTable        = "users"
)

// SupabaseService expõe as tabelas do Supabase como fonte de registros das métricas
type SupabaseService struct {
	Client supabaseclient.Client
}

func New(client supabaseclient.Client) *SupabaseService {
	return &SupabaseService{
		Client: client,
	}
}

func (s *SupabaseService) FindAppointments(ctx context.Context, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	if err := domain.ValidateAppointmentFields(query.Fields); err != nil {
		return nil, err
	}

	params := supabaseclient.SelectParams{
		Columns: query.Fields,
		Limit:   query.Limit,
	}

	if query.Date != "" {
		params.Filters = append(params.Filters, supabaseclient.Filter{Column: domain.AppointmentFieldDate, Operator: supabaseclient.OpEq, Value: query.Date})
	}

	if query.DateFrom != "" {
		params.Filters = append(params.Filters, supabaseclient.Filter{Column: domain.AppointmentFieldDate, Operator: supabaseclient.OpGte, Value: query.DateFrom})
	}

	if query.Status != "" {
		params.Filters = append(params.Filters, supabaseclient.Filter{Column: domain.AppointmentFieldStatus, Operator: supabaseclient.OpEq, Value: query.Status})
	}

	if query.OrderByDateDesc {
		params.OrderDesc = domain.AppointmentFieldDate
	}

	return selectRecords[domain.Appointment](ctx, s.Client, appointmentsTable, params)
}

func (s *SupabaseService) FindUsers(ctx context.Context, query domain.UserQuery) ([]domain.User, error) {
	if err := domain.ValidateUserFields(query.Fields); err != nil {
		return nil, err
	}

	params := supabaseclient.SelectParams{
		Columns: query.Fields,
		Limit:   query.Limit,
	}

	if query.ProfileCompleted != nil {
		params.Filters = append(params.Filters, supabaseclient.Filter{
			Column:   domain.UserFieldProfileCompleted,
			Operator: supabaseclient.OpEq,
			Value:    strconv.FormatBool(*query.ProfileCompleted),
		})
	}

	return selectRecords[domain.User](ctx, s.Client, usersTable, params)
}

// selectRecords decodifica cada linha separadamente; linhas com formato inválido são ignoradas
func selectRecords[T any](ctx context.Context, client supabaseclient.Client, table string, params supabaseclient.SelectParams) ([]T, error) {
	raw := make([]jsoniter.RawMessage, 0)
	if err := client.Select(ctx, table, params, &raw); err != nil {
		return nil, err
	}

	records := make([]T, 0, len(raw))
	for i, item := range raw {
		var record T
		if err := json.Unmarshal(item, &record); err != nil {
			log.ForContext(ctx).WithError(err).WithFields(log.Fields{
				"table": table,
				"row":   i,
			}).Warn("Registro do Supabase com formato inválido ignorado")
			continue
		}
		records = append(records, record)
	}

	return records, nil
}
