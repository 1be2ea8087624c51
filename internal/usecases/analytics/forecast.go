package analytics

import "github.com/margareth/analytics-api/internal/domain"

// ForecastDemand projeta a receita da próxima semana pela média das médias de cada dia da semana.
// Retorna false quando nenhum agendamento tem data válida.
func ForecastDemand(confirmed []domain.Appointment) (domain.DemandForecast, bool) {
	var (
		sums   [7]float64
		counts [7]int
	)

	for _, appointment := range confirmed {
		day, ok := appointment.Day()
		if !ok {
			continue
		}

		index := domain.WeekdayIndex(day)
		sums[index] += appointment.Amount()
		counts[index]++
	}

	var (
		meanSum    float64
		days       int
		busiestAvg float64
	)
	busiest := -1

	for i := range sums {
		if counts[i] == 0 {
			continue
		}

		average := sums[i] / float64(counts[i])
		meanSum += average
		days++

		if busiest < 0 || average > busiestAvg {
			busiest, busiestAvg = i, average
		}
	}

	if days == 0 {
		return domain.DemandForecast{}, false
	}

	return domain.DemandForecast{
		ExpectedRevenue: meanSum / float64(days) * 7,
		PeakDay:         domain.WeekdayLabels[busiest],
		Confidence:      forecastConfidence,
	}, true
}
