package reporting

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type stubOverview struct {
	overview domain.Overview
}

func (s stubOverview) Overview(context.Context) domain.Overview {
	return s.overview
}

func sampleOverview() domain.Overview {
	return domain.Overview{
		BusinessStats: domain.BusinessStats{TodayAppointments: 3, MonthlyRevenue: 4200, ActiveClients: 12, SatisfactionRate: 92.5},
		RevenueData: domain.RevenueSeries{
			{Day: "Seg", Amount: 100}, {Day: "Ter", Amount: 110}, {Day: "Qua", Amount: 120},
			{Day: "Qui", Amount: 130}, {Day: "Sex", Amount: 200}, {Day: "Sáb", Amount: 180}, {Day: "Dom", Amount: 50},
		},
		ServicePerformance: domain.ServiceRanking{
			{Name: "Corte de Cabelo", Performance: 88, Revenue: 1500, Appointments: 20},
		},
		QuickStats: domain.QuickStats{ConversionRate: 80, PeakHour: "14:00-16:00", PopularService: "Corte de Cabelo"},
		Demographics: domain.DemographicBreakdown{
			{Category: "Idade: 26-35", Percentage: 40, Count: 8},
		},
		ClientSegments: domain.SegmentCounts{domain.SegmentVIP: 2, domain.SegmentNovo: 5},
		DemandForecast: domain.DemandForecast{ExpectedRevenue: 2800, PeakDay: "Sex", Confidence: 0.85},
		Sources: map[domain.ViewName]domain.Source{
			domain.ViewBusinessStats: domain.SourceComputed,
			domain.ViewRevenueData:   domain.SourceLowData,
		},
		GeneratedAt: time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC),
	}
}

func TestExporter_Export(t *testing.T) {
	var buf bytes.Buffer

	overview, err := NewExporter(stubOverview{overview: sampleOverview()}).Export(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 3, overview.BusinessStats.TodayAppointments)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetRevenue, SheetServices, SheetDemographics, SheetSegments}, f.GetSheetList())

	tests := []struct {
		name     string
		sheet    string
		cell     string
		expected string
	}{
		{"Agendamentos de hoje no resumo", SheetSummary, "B2", "3"},
		{"Horário de pico no resumo", SheetSummary, "B10", "14:00-16:00"},
		{"Origem da primeira visão", SheetSummary, "B18", "computed"},
		{"Origem da série de receita", SheetSummary, "B19", "low_data"},
		{"Primeiro dia da série", SheetRevenue, "A2", "Seg"},
		{"Receita de sexta", SheetRevenue, "B6", "200"},
		{"Serviço mais bem avaliado", SheetServices, "A2", "Corte de Cabelo"},
		{"Categoria demográfica", SheetDemographics, "A2", "Idade: 26-35"},
		{"Segmentos em ordem fixa", SheetSegments, "A3", domain.SegmentFrequente},
		{"Segmento sem clientes aparece zerado", SheetSegments, "B3", "0"},
		{"Quantidade de novos", SheetSegments, "B5", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := f.GetCellValue(tt.sheet, tt.cell)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, value)
		})
	}
}

func TestSegmentRows_SegmentosExtras(t *testing.T) {
	rows := segmentRows(domain.SegmentCounts{"Zumbi": 1, "Antigo": 2, domain.SegmentVIP: 3})

	require.Len(t, rows, 7)
	assert.Equal(t, []any{domain.SegmentVIP, 3}, rows[1])
	assert.Equal(t, []any{"Antigo", 2}, rows[5])
	assert.Equal(t, []any{"Zumbi", 1}, rows[6])
}
