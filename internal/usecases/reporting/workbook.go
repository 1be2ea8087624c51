package reporting

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Nomes das abas da planilha
const (
	SheetSummary      = "Resumo"
	SheetRevenue      = "Receita"
	SheetServices     = "Serviços"
	SheetDemographics = "Demografia"
	SheetSegments     = "Segmentos"
)

// OverviewProvider calcula o overview exportado
type OverviewProvider interface {
	Overview(ctx context.Context) domain.Overview
}

// Exporter gera a planilha do dashboard a partir do overview atual
type Exporter struct {
	analytics OverviewProvider
}

func NewExporter(analytics OverviewProvider) *Exporter {
	return &Exporter{analytics: analytics}
}

// Export calcula o overview e escreve a planilha em w
func (e *Exporter) Export(ctx context.Context, w io.Writer) (domain.Overview, error) {
	overview := e.analytics.Overview(ctx)

	file, err := BuildWorkbook(overview)
	if err != nil {
		return overview, err
	}
	defer file.Close()

	if err := file.Write(w); err != nil {
		return overview, fmt.Errorf("erro ao escrever planilha: %w", err)
	}

	return overview, nil
}

// BuildWorkbook monta uma aba por grupo de visões
func BuildWorkbook(overview domain.Overview) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("erro ao renomear aba: %w", err)
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetSummary, summaryRows(overview)},
		{SheetRevenue, revenueRows(overview.RevenueData)},
		{SheetServices, serviceRows(overview.ServicePerformance)},
		{SheetDemographics, demographicRows(overview.Demographics)},
		{SheetSegments, segmentRows(overview.ClientSegments)},
	}

	for _, sheet := range sheets {
		if sheet.name != SheetSummary {
			if _, err := f.NewSheet(sheet.name); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("erro ao criar aba %s: %w", sheet.name, err)
			}
		}

		if err := writeRows(f, sheet.name, sheet.rows); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("erro ao escrever linha %d da aba %s: %w", i+1, sheet, err)
		}
	}
	return nil
}

func summaryRows(overview domain.Overview) [][]any {
	stats := overview.BusinessStats
	quick := overview.QuickStats
	forecast := overview.DemandForecast

	rows := [][]any{
		{"Indicador", "Valor"},
		{"Agendamentos hoje", stats.TodayAppointments},
		{"Receita mensal", stats.MonthlyRevenue},
		{"Clientes ativos", stats.ActiveClients},
		{"Satisfação (%)", stats.SatisfactionRate},
		{"Conversão (%)", quick.ConversionRate},
		{"Cancelamento (%)", quick.CancelationRate},
		{"Novos clientes", quick.NewClients},
		{"Ticket médio", quick.AverageTicket},
		{"Horário de pico", quick.PeakHour},
		{"Serviço mais procurado", quick.PopularService},
		{"Receita prevista", forecast.ExpectedRevenue},
		{"Dia mais movimentado", forecast.PeakDay},
		{"Confiança da previsão", forecast.Confidence},
		{"Gerado em", overview.GeneratedAt.Format("2006-01-02 15:04:05")},
		{},
		{"Visão", "Origem"},
	}

	for _, name := range domain.ViewNames {
		if source, ok := overview.Sources[name]; ok {
			rows = append(rows, []any{string(name), string(source)})
		}
	}

	return rows
}

func revenueRows(series domain.RevenueSeries) [][]any {
	rows := [][]any{{"Dia", "Receita"}}
	for _, point := range series {
		rows = append(rows, []any{point.Day, point.Amount})
	}
	return rows
}

func serviceRows(ranking domain.ServiceRanking) [][]any {
	rows := [][]any{{"Serviço", "Desempenho", "Receita", "Agendamentos"}}
	for _, service := range ranking {
		rows = append(rows, []any{service.Name, service.Performance, service.Revenue, service.Appointments})
	}
	return rows
}

func demographicRows(breakdown domain.DemographicBreakdown) [][]any {
	rows := [][]any{{"Categoria", "Percentual", "Clientes"}}
	for _, item := range breakdown {
		rows = append(rows, []any{item.Category, item.Percentage, item.Count})
	}
	return rows
}

// segmentRows segue a ordem fixa dos segmentos; segmentos extras vão ao final em ordem alfabética
func segmentRows(counts domain.SegmentCounts) [][]any {
	rows := [][]any{{"Segmento", "Clientes"}}

	known := make(map[string]struct{}, len(domain.Segments))
	for _, segment := range domain.Segments {
		known[segment] = struct{}{}
		rows = append(rows, []any{segment, counts[segment]})
	}

	extra := make([]string, 0)
	for segment := range counts {
		if _, ok := known[segment]; !ok {
			extra = append(extra, segment)
		}
	}
	sort.Strings(extra)

	for _, segment := range extra {
		rows = append(rows, []any{segment, counts[segment]})
	}

	return rows
}
