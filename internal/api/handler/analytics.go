package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/internal/usecases/analytics"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
)

// Headers de resposta das visões
const (
	SourceHeader        = "X-Analytics-Source"
	FallbackViewsHeader = "X-Analytics-Fallback-Views"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WorkbookExporter gera a planilha do dashboard
type WorkbookExporter interface {
	Export(ctx context.Context, w io.Writer) (domain.Overview, error)
}

// GetView retorna uma visão; o corpo é exatamente o formato da visão e o ramo vai no header
func GetView(service analytics.Analyzer, name domain.ViewName) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("view", string(name))

		view, err := service.Compute(r.Context(), name)
		if err != nil {
			code := apiErrors.ErrAggregation
			var analyticsErr *analytics.AnalyticsError
			if errors.As(err, &analyticsErr) {
				code = analyticsErr.Code
			}

			logger.WithError(err).Warn("analytics: visão não pôde ser calculada")
			apiErrors.WriteError(w, code, err.Error(), nil)
			return
		}

		w.Header().Set(SourceHeader, string(view.Source))
		writeJSON(w, logger, http.StatusOK, view.Data)
	})
}

// GetOverview retorna as sete visões calculadas em paralelo
func GetOverview(service analytics.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		overview := service.Overview(r.Context())

		logger.WithField("fallback_views", overview.FallbackCount()).Info("analytics: overview calculado")

		w.Header().Set(FallbackViewsHeader, strconv.Itoa(overview.FallbackCount()))
		writeJSON(w, logger, http.StatusOK, overview)
	})
}

// ExportWorkbook devolve o overview atual como planilha xlsx
func ExportWorkbook(exporter WorkbookExporter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var buf bytes.Buffer
		overview, err := exporter.Export(r.Context(), &buf)
		if err != nil {
			logger.WithError(err).Error("export: erro ao gerar planilha")
			apiErrors.WriteError(w, apiErrors.ErrExportFailed, "Erro ao gerar planilha", nil)
			return
		}

		filename := fmt.Sprintf("margareth-analytics-%s.xlsx", overview.GeneratedAt.Format("2006-01-02"))

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.Header().Set(FallbackViewsHeader, strconv.Itoa(overview.FallbackCount()))
		w.WriteHeader(http.StatusOK)

		if _, err := buf.WriteTo(w); err != nil {
			logger.WithError(err).Error("export: erro ao enviar planilha")
		}
	})
}
