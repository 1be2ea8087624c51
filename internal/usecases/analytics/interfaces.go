package analytics

import (
	"context"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
)

// AppointmentFinder é a fonte de agendamentos consultada pelas visões
type AppointmentFinder interface {
	FindAppointments(ctx context.Context, query domain.AppointmentQuery) ([]domain.Appointment, error)
}

// UserFinder é a fonte de clientes consultada pelas visões demográficas e de segmentação
type UserFinder interface {
	FindUsers(ctx context.Context, query domain.UserQuery) ([]domain.User, error)
}

// OutcomeRecorder recebe o ramo que produziu cada visão calculada
type OutcomeRecorder interface {
	RecordOutcome(view domain.ViewName, source domain.Source, elapsed time.Duration)
}

// Analyzer é o contrato consumido pela camada HTTP e pelo agendador
type Analyzer interface {
	// Compute calcula uma visão pelo nome; retorna ErrUnknownView para nomes inexistentes
	Compute(ctx context.Context, name domain.ViewName) (domain.View[any], error)

	// Overview calcula todas as visões em paralelo
	Overview(ctx context.Context) domain.Overview
}
