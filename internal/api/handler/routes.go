package handler

import (
	"net/http"
	"time"

	"github.com/margareth/analytics-api/internal/api/handler/router"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/internal/usecases/analytics"
	"github.com/margareth/analytics-api/internal/usecases/authenticating"
	"github.com/margareth/analytics-api/pkg/middleware"
)

const analyticsPrefix = "/api/analytics/"

func Healthcheck(version string) []router.Route {
	return []router.Route{
		{
			Path:    "/",
			Method:  http.MethodGet,
			Handler: Root(version),
		},
		{
			Path:    "/health",
			Method:  http.MethodGet,
			Handler: Health(version, time.Now),
		},
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

// Analytics registra uma rota por visão; o httprouter não aceita um parâmetro
// no mesmo nível das rotas fixas de overview e exportação
func Analytics(service analytics.Analyzer, exporter WorkbookExporter) []router.Route {
	routes := make([]router.Route, 0, len(domain.ViewNames)+2)
	for _, name := range domain.ViewNames {
		routes = append(routes, router.Route{
			Path:    analyticsPrefix + string(name),
			Method:  http.MethodGet,
			Handler: GetView(service, name),
		})
	}

	return append(routes,
		router.Route{
			Path:    analyticsPrefix + "overview",
			Method:  http.MethodGet,
			Handler: GetOverview(service),
		},
		router.Route{
			Path:    analyticsPrefix + "export.xlsx",
			Method:  http.MethodGet,
			Handler: ExportWorkbook(exporter),
		},
	)
}

func Snapshots(reader SnapshotReader) []router.Route {
	return []router.Route{
		{
			Path:    analyticsPrefix + "snapshots/latest",
			Method:  http.MethodGet,
			Handler: GetLatestSnapshot(reader),
		},
	}
}

func CronJobs(syncer SnapshotSyncer, authenticator authenticating.Authenticator) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/" + CronJobTypeSnapshot + "/run",
			Method:      http.MethodPost,
			Handler:     RunSnapshotSync(syncer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly(authenticator)},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(syncer),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly(authenticator)},
		},
	}
}

func Metrics(metricsHandler http.Handler) []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: metricsHandler,
		},
	}
}
