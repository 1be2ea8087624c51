package domain

import "time"

// WeekdayLabels são os rótulos usados no dashboard, começando na segunda-feira
var WeekdayLabels = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// WeekdayIndex converte o dia da semana para o índice 0=segunda .. 6=domingo
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}
