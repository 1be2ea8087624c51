package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "analytics"

// Metrics concentra os coletores expostos em /metrics
type Metrics struct {
	registry      *prometheus.Registry
	viewOutcomes  *prometheus.CounterVec
	viewDuration  *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
	snapshotRuns  *prometheus.CounterVec
	snapshotFalls prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		viewOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_outcomes_total",
			Help:      "Visões calculadas por ramo (computed, low_data, fallback).",
		}, []string{"view", "source"}),
		viewDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_duration_seconds",
			Help:      "Tempo de cálculo de cada visão.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"view"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requisições HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		snapshotRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_runs_total",
			Help:      "Execuções da fotografia diária por resultado.",
		}, []string{"result"}),
		snapshotFalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_fallback_views",
			Help:      "Visões substituídas por valores padrão na última fotografia.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.viewOutcomes,
		m.viewDuration,
		m.httpRequests,
		m.snapshotRuns,
		m.snapshotFalls,
	)

	return m
}

// RecordOutcome registra o ramo e a duração do cálculo de uma visão
func (m *Metrics) RecordOutcome(view domain.ViewName, source domain.Source, elapsed time.Duration) {
	m.viewOutcomes.WithLabelValues(string(view), string(source)).Inc()
	m.viewDuration.WithLabelValues(string(view)).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// RecordSnapshot registra uma execução da fotografia; fallbackViews só é atualizado em sucesso
func (m *Metrics) RecordSnapshot(success bool, fallbackViews int) {
	if !success {
		m.snapshotRuns.WithLabelValues("error").Inc()
		return
	}

	m.snapshotRuns.WithLabelValues("success").Inc()
	m.snapshotFalls.Set(float64(fallbackViews))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
