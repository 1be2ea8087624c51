package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/margareth/analytics-api/internal/api/handler"
	"github.com/margareth/analytics-api/internal/api/handler/router"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/usecases/analytics"
	"github.com/margareth/analytics-api/internal/usecases/authenticating"
	"github.com/margareth/analytics-api/pkg/middleware"
	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 15 * time.Second

// Dependencies agrupa os serviços usados pelas rotas
type Dependencies struct {
	Analytics       analytics.Analyzer
	Exporter        handler.WorkbookExporter
	Snapshots       handler.SnapshotReader
	SnapshotSyncer  handler.SnapshotSyncer
	Authenticator   authenticating.Authenticator
	RequestObserver middleware.RequestObserver
	MetricsHandler  http.Handler
}

type Server struct {
	httpServer *http.Server
}

func New(config *config.Config, deps Dependencies) (*Server, error) {
	if deps.Analytics == nil || deps.Authenticator == nil {
		return nil, fmt.Errorf("api: serviço de métricas e autenticador são obrigatórios")
	}

	configs := []router.ConfigRouter{
		router.WithRoutes(handler.Healthcheck(config.App.Version)...),
		router.WithRoutes(handler.Analytics(deps.Analytics, deps.Exporter)...),
	}
	if deps.Snapshots != nil {
		configs = append(configs, router.WithRoutes(handler.Snapshots(deps.Snapshots)...))
	}
	if deps.SnapshotSyncer != nil {
		configs = append(configs, router.WithRoutes(handler.CronJobs(deps.SnapshotSyncer, deps.Authenticator)...))
	}
	if deps.MetricsHandler != nil {
		configs = append(configs, router.WithRoutes(handler.Metrics(deps.MetricsHandler)...))
	}

	rt := router.New(configs...)

	logrus.WithField("routes", len(rt.Registered())).Debug("Rotas registradas")

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(deps.RequestObserver),
		middleware.Cors(),
		middleware.RateLimit(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst),
		middleware.AuthMiddleware(deps.Authenticator),
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           alice.New(middlewares...).Then(rt),
			ReadHeaderTimeout: 2 * time.Second,
		},
	}

	return srv, nil
}

// Handler expõe a cadeia completa de middlewares e rotas
func (s Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logrus.WithFields(logrus.Fields{
		"timeout": shutdownTimeout.String(),
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
