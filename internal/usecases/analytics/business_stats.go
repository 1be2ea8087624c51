package analytics

import "github.com/margareth/analytics-api/internal/domain"

// ComputeBusinessStats resume os agendamentos confirmados de hoje e da janela de 30 dias
func ComputeBusinessStats(todayConfirmed, windowConfirmed []domain.Appointment) domain.BusinessStats {
	revenue := 0.0
	clients := make(map[string]struct{})

	for _, appointment := range windowConfirmed {
		revenue += appointment.Amount()
		if email, ok := appointment.Email(); ok {
			clients[email] = struct{}{}
		}
	}

	return domain.BusinessStats{
		TodayAppointments: len(todayConfirmed),
		MonthlyRevenue:    revenue,
		ActiveClients:     len(clients),
		SatisfactionRate:  satisfactionRate,
	}
}
