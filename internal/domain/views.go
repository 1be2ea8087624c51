package domain

import "time"

// ViewName identifica cada visão analítica exposta ao dashboard
type ViewName string

const (
	ViewBusinessStats      ViewName = "business-stats"
	ViewRevenueData        ViewName = "revenue-data"
	ViewServicePerformance ViewName = "service-performance"
	ViewQuickStats         ViewName = "quick-stats"
	ViewDemographics       ViewName = "demographics"
	ViewClientSegments     ViewName = "client-segments"
	ViewDemandForecast     ViewName = "demand-forecast"
)

// ViewNames na ordem em que aparecem no dashboard
var ViewNames = []ViewName{
	ViewBusinessStats,
	ViewRevenueData,
	ViewServicePerformance,
	ViewQuickStats,
	ViewDemographics,
	ViewClientSegments,
	ViewDemandForecast,
}

// BusinessStats resume a operação do dia e dos últimos 30 dias
type BusinessStats struct {
	TodayAppointments int     `json:"todayAppointments"`
	MonthlyRevenue    float64 `json:"monthlyRevenue"`
	ActiveClients     int     `json:"activeClients"`
	SatisfactionRate  float64 `json:"satisfactionRate"`
}

// RevenuePoint é a receita representativa de um dia da semana
type RevenuePoint struct {
	Day    string  `json:"day"`
	Amount float64 `json:"amount"`
}

// RevenueSeries sempre tem 7 pontos, de segunda a domingo
type RevenueSeries []RevenuePoint

type ServicePerformance struct {
	Name         string  `json:"name"`
	Performance  float64 `json:"performance"`
	Revenue      float64 `json:"revenue"`
	Appointments int     `json:"appointments"`
}

// ServiceRanking contém no máximo 5 serviços, do melhor para o pior desempenho
type ServiceRanking []ServicePerformance

type QuickStats struct {
	ConversionRate  float64 `json:"conversionRate"`
	CancelationRate float64 `json:"cancelationRate"`
	NewClients      int     `json:"newClients"`
	AverageTicket   float64 `json:"averageTicket"`
	PeakHour        string  `json:"peakHour"`
	PopularService  string  `json:"popularService"`
}

type DemographicItem struct {
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
	Count      int     `json:"count"`
}

// DemographicBreakdown contém no máximo 15 categorias, da maior para a menor participação
type DemographicBreakdown []DemographicItem

// Segmentos de clientes
const (
	SegmentVIP       = "VIP"
	SegmentFrequente = "Frequente"
	SegmentAtivo     = "Ativo"
	SegmentNovo      = "Novo"
)

var Segments = []string{SegmentVIP, SegmentFrequente, SegmentAtivo, SegmentNovo}

// SegmentCounts mapeia segmento -> quantidade de clientes
type SegmentCounts map[string]int

type DemandForecast struct {
	ExpectedRevenue float64 `json:"expectedRevenue"`
	PeakDay         string  `json:"peakDay"`
	Confidence      float64 `json:"confidence"`
}

// Overview agrupa todas as visões calculadas em uma única chamada
type Overview struct {
	BusinessStats      BusinessStats        `json:"businessStats"`
	RevenueData        RevenueSeries        `json:"revenueData"`
	ServicePerformance ServiceRanking       `json:"servicePerformance"`
	QuickStats         QuickStats           `json:"quickStats"`
	Demographics       DemographicBreakdown `json:"demographics"`
	ClientSegments     SegmentCounts        `json:"clientSegments"`
	DemandForecast     DemandForecast       `json:"demandForecast"`
	Sources            map[ViewName]Source  `json:"sources"`
	GeneratedAt        time.Time            `json:"generatedAt"`
}

// FallbackCount retorna quantas visões do overview foram substituídas por dados padrão
func (o Overview) FallbackCount() int {
	count := 0
	for _, source := range o.Sources {
		if source == SourceFallback {
			count++
		}
	}
	return count
}
