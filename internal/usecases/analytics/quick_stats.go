package analytics

import "github.com/margareth/analytics-api/internal/domain"

const (
	defaultPeakHour       = 14
	defaultPopularService = "Corte de Cabelo"
)

// ComputeQuickStats calcula os indicadores rápidos sobre agendamentos de qualquer status
func ComputeQuickStats(appointments []domain.Appointment) domain.QuickStats {
	var (
		confirmed, canceled int
		ticketSum           float64
		ticketCount         int
	)

	clients := make(map[string]struct{})
	hours := newCounter[int]()
	services := newCounter[string]()

	for _, appointment := range appointments {
		switch {
		case appointment.IsConfirmed():
			confirmed++
		case appointment.IsCanceled():
			canceled++
		}

		if email, ok := appointment.Email(); ok {
			clients[email] = struct{}{}
		}

		if amount := appointment.Amount(); amount != 0 {
			ticketSum += amount
			ticketCount++
		}

		if hour, ok := appointment.Hour(); ok {
			hours.add(hour)
		}

		if appointment.Service != nil && *appointment.Service != "" {
			services.add(*appointment.Service)
		}
	}

	averageTicket := 0.0
	if ticketCount > 0 {
		averageTicket = ticketSum / float64(ticketCount)
	}

	peakHour, ok := hours.mostCommon()
	if !ok {
		peakHour = defaultPeakHour
	}

	popularService, ok := services.mostCommon()
	if !ok {
		popularService = defaultPopularService
	}

	return domain.QuickStats{
		ConversionRate:  percentage(confirmed, len(appointments)),
		CancelationRate: percentage(canceled, len(appointments)),
		NewClients:      len(clients),
		AverageTicket:   averageTicket,
		PeakHour:        peakHourLabel(peakHour),
		PopularService:  popularService,
	}
}
