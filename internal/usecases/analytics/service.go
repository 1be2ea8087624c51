package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Janelas de consulta, em dias
const (
	statsWindowDays    = 30
	revenueWindowDays  = 60
	servicesWindowDays = 60
	quickWindowDays    = 30
	forecastWindowDays = 180
)

// Service calcula as visões analíticas a partir das fontes de registros injetadas
type Service struct {
	appointments AppointmentFinder
	users        UserFinder
	recorder     OutcomeRecorder
	clock        func() time.Time
	location     *time.Location
}

type Option func(*Service)

// WithClock define o relógio usado para calcular "hoje"
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLocation define o fuso horário do salão
func WithLocation(location *time.Location) Option {
	return func(s *Service) {
		if location != nil {
			s.location = location
		}
	}
}

// WithRecorder registra o ramo de cada visão calculada
func WithRecorder(recorder OutcomeRecorder) Option {
	return func(s *Service) {
		s.recorder = recorder
	}
}

// NewService cria uma nova instância do serviço de métricas
func NewService(appointments AppointmentFinder, users UserFinder, opts ...Option) *Service {
	s := &Service{
		appointments: appointments,
		users:        users,
		clock:        time.Now,
		location:     time.Local,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// today retorna a meia-noite do dia corrente no fuso do salão
func (s *Service) today() time.Time {
	now := s.clock().In(s.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
}

func (s *Service) daysAgo(days int) string {
	return s.today().AddDate(0, 0, -days).Format(time.DateOnly)
}

func (s *Service) findAppointments(ctx context.Context, view domain.ViewName, query domain.AppointmentQuery) ([]domain.Appointment, error) {
	appointments, err := s.appointments.FindAppointments(ctx, query)
	if err != nil {
		return nil, sourceError(view, err)
	}
	return appointments, nil
}

func (s *Service) findCompletedProfiles(ctx context.Context, view domain.ViewName, fields ...string) ([]domain.User, error) {
	completed := true
	users, err := s.users.FindUsers(ctx, domain.UserQuery{
		ProfileCompleted: &completed,
		Fields:           fields,
	})
	if err != nil {
		return nil, sourceError(view, err)
	}
	return users, nil
}

// BusinessStats resume os agendamentos de hoje e dos últimos 30 dias
func (s *Service) BusinessStats(ctx context.Context) domain.View[domain.BusinessStats] {
	return guard(ctx, s, domain.ViewBusinessStats, s.computeBusinessStats, fallbackBusinessStats)
}

func (s *Service) computeBusinessStats(ctx context.Context) (domain.BusinessStats, domain.Source, error) {
	today, err := s.findAppointments(ctx, domain.ViewBusinessStats, domain.AppointmentQuery{
		Date:   s.today().Format(time.DateOnly),
		Status: domain.AppointmentStatusConfirmed,
		Fields: []string{domain.AppointmentFieldDate},
	})
	if err != nil {
		return domain.BusinessStats{}, "", err
	}

	window, err := s.findAppointments(ctx, domain.ViewBusinessStats, domain.AppointmentQuery{
		DateFrom: s.daysAgo(statsWindowDays),
		Status:   domain.AppointmentStatusConfirmed,
		Fields:   []string{domain.AppointmentFieldTotalAmount, domain.AppointmentFieldCustomerEmail},
	})
	if err != nil {
		return domain.BusinessStats{}, "", err
	}

	return ComputeBusinessStats(today, window), domain.SourceComputed, nil
}

// RevenueData retorna a receita representativa de cada dia da semana
func (s *Service) RevenueData(ctx context.Context) domain.View[domain.RevenueSeries] {
	return s.revenueData(ctx, func() domain.View[domain.BusinessStats] {
		return guard(ctx, s.unrecorded(), domain.ViewBusinessStats, s.computeBusinessStats, fallbackBusinessStats)
	})
}

// unrecorded retorna uma cópia do serviço que não registra ramos; usada quando uma visão
// é calculada apenas como insumo de outra
func (s *Service) unrecorded() *Service {
	clone := *s
	clone.recorder = nil
	return &clone
}

// revenueData usa stats apenas quando precisa estimar a série pela receita mensal
func (s *Service) revenueData(ctx context.Context, stats func() domain.View[domain.BusinessStats]) domain.View[domain.RevenueSeries] {
	proportional := func() (domain.RevenueSeries, bool) {
		monthly := stats()
		if monthly.IsFallback() {
			return fallbackRevenueSeries(), false
		}
		return ProportionalRevenue(monthly.Data.MonthlyRevenue), true
	}

	compute := func(ctx context.Context) (domain.RevenueSeries, domain.Source, error) {
		confirmed, err := s.findAppointments(ctx, domain.ViewRevenueData, domain.AppointmentQuery{
			DateFrom: s.daysAgo(revenueWindowDays),
			Status:   domain.AppointmentStatusConfirmed,
			Fields:   []string{domain.AppointmentFieldDate, domain.AppointmentFieldTotalAmount},
		})
		if err != nil {
			return nil, "", err
		}

		if len(confirmed) < lowDataThreshold {
			series, ok := proportional()
			if !ok {
				return series, domain.SourceFallback, nil
			}
			return series, domain.SourceLowData, nil
		}

		return ComputeRevenueSeries(confirmed), domain.SourceComputed, nil
	}

	fallback := func() domain.RevenueSeries {
		series, _ := proportional()
		return series
	}

	return guard(ctx, s, domain.ViewRevenueData, compute, fallback)
}

// ServicePerformance retorna os 5 serviços com melhor desempenho nos últimos 60 dias
func (s *Service) ServicePerformance(ctx context.Context) domain.View[domain.ServiceRanking] {
	return guard(ctx, s, domain.ViewServicePerformance, s.computeServicePerformance, fallbackServiceRanking)
}

func (s *Service) computeServicePerformance(ctx context.Context) (domain.ServiceRanking, domain.Source, error) {
	appointments, err := s.findAppointments(ctx, domain.ViewServicePerformance, domain.AppointmentQuery{
		DateFrom: s.daysAgo(servicesWindowDays),
		Fields: []string{
			domain.AppointmentFieldService,
			domain.AppointmentFieldTotalAmount,
			domain.AppointmentFieldStatus,
			domain.AppointmentFieldDate,
		},
	})
	if err != nil {
		return nil, "", err
	}

	if len(appointments) == 0 {
		return fallbackServiceRanking(), domain.SourceFallback, nil
	}

	return RankServices(appointments), domain.SourceComputed, nil
}

// QuickStats retorna os indicadores rápidos dos últimos 30 dias
func (s *Service) QuickStats(ctx context.Context) domain.View[domain.QuickStats] {
	return guard(ctx, s, domain.ViewQuickStats, s.computeQuickStats, fallbackQuickStats)
}

func (s *Service) computeQuickStats(ctx context.Context) (domain.QuickStats, domain.Source, error) {
	appointments, err := s.findAppointments(ctx, domain.ViewQuickStats, domain.AppointmentQuery{
		DateFrom: s.daysAgo(quickWindowDays),
	})
	if err != nil {
		return domain.QuickStats{}, "", err
	}

	return ComputeQuickStats(appointments), domain.SourceComputed, nil
}

// Demographics retorna a distribuição de categorias dos clientes com perfil completo
func (s *Service) Demographics(ctx context.Context) domain.View[domain.DemographicBreakdown] {
	return guard(ctx, s, domain.ViewDemographics, s.computeDemographics, fallbackDemographics)
}

func (s *Service) computeDemographics(ctx context.Context) (domain.DemographicBreakdown, domain.Source, error) {
	users, err := s.findCompletedProfiles(ctx, domain.ViewDemographics,
		domain.UserFieldAgeGroup,
		domain.UserFieldHairType,
		domain.UserFieldVisitFrequency,
		domain.UserFieldSpendingRange,
	)
	if err != nil {
		return nil, "", err
	}

	if len(users) == 0 {
		return fallbackDemographics(), domain.SourceFallback, nil
	}

	return BuildDemographics(users), domain.SourceComputed, nil
}

// ClientSegments classifica os clientes com perfil completo em VIP, Frequente, Ativo e Novo
func (s *Service) ClientSegments(ctx context.Context) domain.View[domain.SegmentCounts] {
	return guard(ctx, s, domain.ViewClientSegments, s.computeClientSegments, fallbackSegments)
}

func (s *Service) computeClientSegments(ctx context.Context) (domain.SegmentCounts, domain.Source, error) {
	users, err := s.findCompletedProfiles(ctx, domain.ViewClientSegments, domain.UserFieldID, domain.UserFieldEmail)
	if err != nil {
		return nil, "", err
	}

	if len(users) < minSegmentationUsers {
		return fallbackSegments(), domain.SourceLowData, nil
	}

	confirmed, err := s.findAppointments(ctx, domain.ViewClientSegments, domain.AppointmentQuery{
		Status: domain.AppointmentStatusConfirmed,
		Fields: []string{
			domain.AppointmentFieldDate,
			domain.AppointmentFieldTotalAmount,
			domain.AppointmentFieldCustomerEmail,
		},
	})
	if err != nil {
		return nil, "", err
	}

	return SegmentClients(users, confirmed, s.today()), domain.SourceComputed, nil
}

// DemandForecast projeta a receita da próxima semana e o dia mais movimentado
func (s *Service) DemandForecast(ctx context.Context) domain.View[domain.DemandForecast] {
	return guard(ctx, s, domain.ViewDemandForecast, s.computeDemandForecast, fallbackDemandForecast)
}

func (s *Service) computeDemandForecast(ctx context.Context) (domain.DemandForecast, domain.Source, error) {
	confirmed, err := s.findAppointments(ctx, domain.ViewDemandForecast, domain.AppointmentQuery{
		DateFrom: s.daysAgo(forecastWindowDays),
		Status:   domain.AppointmentStatusConfirmed,
		Fields: []string{
			domain.AppointmentFieldDate,
			domain.AppointmentFieldService,
			domain.AppointmentFieldTotalAmount,
		},
	})
	if err != nil {
		return domain.DemandForecast{}, "", err
	}

	forecast, ok := ForecastDemand(confirmed)
	if !ok {
		return fallbackDemandForecast(), domain.SourceFallback, nil
	}

	return forecast, domain.SourceComputed, nil
}

// Compute calcula uma visão pelo nome
func (s *Service) Compute(ctx context.Context, name domain.ViewName) (domain.View[any], error) {
	switch name {
	case domain.ViewBusinessStats:
		return erase(s.BusinessStats(ctx)), nil
	case domain.ViewRevenueData:
		return erase(s.RevenueData(ctx)), nil
	case domain.ViewServicePerformance:
		return erase(s.ServicePerformance(ctx)), nil
	case domain.ViewQuickStats:
		return erase(s.QuickStats(ctx)), nil
	case domain.ViewDemographics:
		return erase(s.Demographics(ctx)), nil
	case domain.ViewClientSegments:
		return erase(s.ClientSegments(ctx)), nil
	case domain.ViewDemandForecast:
		return erase(s.DemandForecast(ctx)), nil
	default:
		return domain.View[any]{Name: name}, unknownView(name)
	}
}

// Overview calcula as sete visões em paralelo. A receita mensal é consultada uma única vez
// e compartilhada entre as estatísticas gerais e a estimativa da série de receita.
func (s *Service) Overview(ctx context.Context) domain.Overview {
	var overview domain.Overview

	stats := sync.OnceValue(func() domain.View[domain.BusinessStats] {
		return s.BusinessStats(ctx)
	})

	var (
		mu      sync.Mutex
		sources = make(map[domain.ViewName]domain.Source, len(domain.ViewNames))
	)
	track := func(name domain.ViewName, source domain.Source) {
		mu.Lock()
		defer mu.Unlock()
		sources[name] = source
	}

	// Uma visão nunca falha; o grupo serve apenas para o fan-out, sem cancelamento entre irmãs
	var g errgroup.Group

	g.Go(func() error {
		view := stats()
		overview.BusinessStats = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.revenueData(ctx, stats)
		overview.RevenueData = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.ServicePerformance(ctx)
		overview.ServicePerformance = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.QuickStats(ctx)
		overview.QuickStats = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.Demographics(ctx)
		overview.Demographics = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.ClientSegments(ctx)
		overview.ClientSegments = view.Data
		track(view.Name, view.Source)
		return nil
	})
	g.Go(func() error {
		view := s.DemandForecast(ctx)
		overview.DemandForecast = view.Data
		track(view.Name, view.Source)
		return nil
	})

	_ = g.Wait()

	overview.Sources = sources
	overview.GeneratedAt = s.clock()

	return overview
}
