package analytics

import "github.com/margareth/analytics-api/internal/domain"

// Valores fixos, não calculados a partir dos dados
const (
	satisfactionRate   = 92.5
	forecastConfidence = 0.85
)

// Valores padrão devolvidos quando uma visão não pode ser calculada.
// Cada chamada monta um valor novo para que o chamador possa alterá-lo livremente.

func fallbackBusinessStats() domain.BusinessStats {
	return domain.BusinessStats{
		TodayAppointments: 8,
		MonthlyRevenue:    4250.0,
		ActiveClients:     24,
		SatisfactionRate:  satisfactionRate,
	}
}

func fallbackRevenueSeries() domain.RevenueSeries {
	return weekdaySeries([7]float64{150, 200, 180, 220, 300, 250, 100})
}

func fallbackServiceRanking() domain.ServiceRanking {
	return domain.ServiceRanking{
		{Name: "Corte de Cabelo", Performance: 85.0, Revenue: 2500.0, Appointments: 25},
		{Name: "Coloração", Performance: 72.0, Revenue: 1800.0, Appointments: 15},
		{Name: "Manicure", Performance: 68.0, Revenue: 1200.0, Appointments: 30},
		{Name: "Maquiagem", Performance: 90.0, Revenue: 2200.0, Appointments: 18},
		{Name: "Design de Sobrancelhas", Performance: 60.0, Revenue: 800.0, Appointments: 20},
	}
}

func fallbackQuickStats() domain.QuickStats {
	return domain.QuickStats{
		ConversionRate:  75.0,
		CancelationRate: 12.0,
		NewClients:      8,
		AverageTicket:   85.50,
		PeakHour:        "14:00-16:00",
		PopularService:  defaultPopularService,
	}
}

func fallbackDemographics() domain.DemographicBreakdown {
	return domain.DemographicBreakdown{
		{Category: "Idade: 26-35", Percentage: 35.0, Count: 14},
		{Category: "Cabelo: Cacheado", Percentage: 30.0, Count: 12},
		{Category: "Frequência: Mensal", Percentage: 27.5, Count: 11},
		{Category: "Gastos: R$100-200", Percentage: 25.0, Count: 10},
		{Category: "Idade: 18-25", Percentage: 22.5, Count: 9},
		{Category: "Cabelo: Liso", Percentage: 20.0, Count: 8},
		{Category: "Frequência: Quinzenal", Percentage: 17.5, Count: 7},
		{Category: "Gastos: R$200-500", Percentage: 15.0, Count: 6},
	}
}

func fallbackSegments() domain.SegmentCounts {
	return domain.SegmentCounts{
		domain.SegmentVIP:       5,
		domain.SegmentFrequente: 12,
		domain.SegmentAtivo:     18,
		domain.SegmentNovo:      8,
	}
}

func fallbackDemandForecast() domain.DemandForecast {
	return domain.DemandForecast{
		ExpectedRevenue: 3150.0,
		PeakDay:         domain.WeekdayLabels[4],
		Confidence:      forecastConfidence,
	}
}
