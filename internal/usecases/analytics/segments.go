package analytics

import (
	"time"

	"github.com/margareth/analytics-api/internal/domain"
)

// Com menos clientes do que isso a segmentação devolve os valores padrão
const minSegmentationUsers = 3

// Dias atribuídos a clientes que nunca tiveram um agendamento confirmado
const noVisitDays = 365

// Limites das regras de segmentação
const (
	vipSpending    = 500.0
	vipVisits      = 10
	frequentVisits = 5
	activeVisits   = 1
)

// clientProfile são as características de um cliente usadas na segmentação
type clientProfile struct {
	totalSpent    float64
	visitCount    int
	lastVisitDays int
}

// SegmentClients classifica cada cliente por regras fixas de gasto e frequência.
// Todo cliente cai em exatamente um segmento.
func SegmentClients(users []domain.User, confirmed []domain.Appointment, today time.Time) domain.SegmentCounts {
	counts := make(domain.SegmentCounts, len(domain.Segments))
	for _, segment := range domain.Segments {
		counts[segment] = 0
	}

	byEmail := make(map[string][]domain.Appointment)
	for _, appointment := range confirmed {
		if email, ok := appointment.Email(); ok {
			byEmail[email] = append(byEmail[email], appointment)
		}
	}

	for _, user := range users {
		var visits []domain.Appointment
		if user.Email != nil {
			visits = byEmail[*user.Email]
		}

		counts[classify(buildProfile(visits, today))]++
	}

	return counts
}

func buildProfile(visits []domain.Appointment, today time.Time) clientProfile {
	profile := clientProfile{
		visitCount:    len(visits),
		lastVisitDays: noVisitDays,
	}

	var lastVisit time.Time
	for _, visit := range visits {
		profile.totalSpent += visit.Amount()
		if day, ok := visit.Day(); ok && day.After(lastVisit) {
			lastVisit = day
		}
	}

	if !lastVisit.IsZero() {
		reference := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
		profile.lastVisitDays = int(reference.Sub(lastVisit).Hours() / 24)
	}

	return profile
}

// classify aplica as regras na ordem; a primeira que casar define o segmento
func classify(profile clientProfile) string {
	switch {
	case profile.totalSpent > vipSpending || profile.visitCount > vipVisits:
		return domain.SegmentVIP
	case profile.visitCount > frequentVisits:
		return domain.SegmentFrequente
	case profile.visitCount > activeVisits:
		return domain.SegmentAtivo
	default:
		return domain.SegmentNovo
	}
}
