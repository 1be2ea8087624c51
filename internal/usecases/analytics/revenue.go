package analytics

import "github.com/margareth/analytics-api/internal/domain"

// Abaixo deste volume a série é estimada a partir da receita mensal
const lowDataThreshold = 10

// Peso de cada dia da semana na estimativa proporcional, de segunda a domingo
var weekdayMultipliers = [7]float64{0.8, 0.9, 1.1, 1.2, 1.5, 1.3, 0.6}

// ComputeRevenueSeries calcula a receita média por dia da semana.
// Dias sem amostras recebem a média geral dos agendamentos; registros com data inválida
// entram apenas na média geral.
func ComputeRevenueSeries(confirmed []domain.Appointment) domain.RevenueSeries {
	var (
		sums   [7]float64
		counts [7]int
		total  float64
	)

	for _, appointment := range confirmed {
		amount := appointment.Amount()
		total += amount

		day, ok := appointment.Day()
		if !ok {
			continue
		}

		index := domain.WeekdayIndex(day)
		sums[index] += amount
		counts[index]++
	}

	grandAverage := 0.0
	if len(confirmed) > 0 {
		grandAverage = total / float64(len(confirmed))
	}

	var averages [7]float64
	for i := range averages {
		if counts[i] == 0 {
			averages[i] = grandAverage
			continue
		}
		averages[i] = sums[i] / float64(counts[i])
	}

	return weekdaySeries(averages)
}

// ProportionalRevenue distribui a média diária da receita mensal pelos pesos de cada dia
func ProportionalRevenue(monthlyRevenue float64) domain.RevenueSeries {
	daily := monthlyRevenue / 30

	var amounts [7]float64
	for i, multiplier := range weekdayMultipliers {
		amounts[i] = daily * multiplier
	}

	return weekdaySeries(amounts)
}
