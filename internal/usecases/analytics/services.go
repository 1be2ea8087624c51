package analytics

import "github.com/margareth/analytics-api/internal/domain"

// Rótulo usado para agendamentos sem serviço informado
const unknownService = "Unknown"

// Pesos do índice de desempenho
const (
	completionWeight = 0.6
	revenueWeight    = 0.4
	revenueCeiling   = 1000.0
)

type serviceStats struct {
	name      string
	revenue   float64
	total     int
	confirmed int
}

// RankServices pontua cada serviço pela taxa de confirmação e pela receita,
// retornando os 5 melhores. Empates mantêm a ordem de aparição.
func RankServices(appointments []domain.Appointment) domain.ServiceRanking {
	stats := make(map[string]*serviceStats)
	order := make([]string, 0)

	for _, appointment := range appointments {
		name, ok := appointment.ServiceName()
		if !ok {
			name = unknownService
		}

		entry, exists := stats[name]
		if !exists {
			entry = &serviceStats{name: name}
			stats[name] = entry
			order = append(order, name)
		}

		entry.revenue += appointment.Amount()
		entry.total++
		if appointment.IsConfirmed() {
			entry.confirmed++
		}
	}

	ranking := make(domain.ServiceRanking, 0, len(order))
	for _, name := range order {
		entry := stats[name]
		ranking = append(ranking, domain.ServicePerformance{
			Name:         entry.name,
			Performance:  performanceScore(entry),
			Revenue:      entry.revenue,
			Appointments: entry.total,
		})
	}

	return topN(ranking, maxRankedServices, func(s domain.ServicePerformance) float64 {
		return s.Performance
	})
}

func performanceScore(stats *serviceStats) float64 {
	completionRate := percentage(stats.confirmed, stats.total)
	revenueScore := min(max(stats.revenue/revenueCeiling*100, 0), 100)

	return completionRate*completionWeight + revenueScore*revenueWeight
}
