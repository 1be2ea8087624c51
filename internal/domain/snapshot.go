package domain

import "time"

// Snapshot é uma fotografia do overview persistida pelo agendador
type Snapshot struct {
	ID            string    `json:"id"`
	TakenAt       time.Time `json:"taken_at"`
	FallbackViews int       `json:"fallback_views"`
	Overview      Overview  `json:"overview"`
}
