package analytics

import (
	"sync"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

// confirmed cria um agendamento confirmado com data e valor
func confirmed(date string, amount float64) domain.Appointment {
	return domain.Appointment{
		Date:        date,
		Status:      domain.AppointmentStatusConfirmed,
		TotalAmount: floatPtr(amount),
	}
}

func withEmail(a domain.Appointment, email string) domain.Appointment {
	a.CustomerEmail = strPtr(email)
	return a
}

func withService(a domain.Appointment, service string) domain.Appointment {
	a.Service = strPtr(service)
	return a
}

func repeat(a domain.Appointment, n int) []domain.Appointment {
	items := make([]domain.Appointment, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, a)
	}
	return items
}

func user(email string) domain.User {
	return domain.User{ID: email, Email: strPtr(email), ProfileCompleted: true}
}

// 15 de outubro de 2026 é uma quinta-feira
var referenceNow = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)

type recordedOutcome struct {
	view   domain.ViewName
	source domain.Source
}

type fakeRecorder struct {
	mu       sync.Mutex
	outcomes []recordedOutcome
}

func (r *fakeRecorder) RecordOutcome(view domain.ViewName, source domain.Source, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, recordedOutcome{view: view, source: source})
}

func (r *fakeRecorder) sources() map[domain.ViewName]domain.Source {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := make(map[domain.ViewName]domain.Source)
	for _, outcome := range r.outcomes {
		result[outcome.view] = outcome.source
	}
	return result
}
