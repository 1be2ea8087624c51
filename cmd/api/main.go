package main

import (
	"context"
	"os"
	"path"
	"runtime"

	"github.com/margareth/analytics-api/infrastructure/database"
	"github.com/margareth/analytics-api/infrastructure/integrator/supabase"
	"github.com/margareth/analytics-api/infrastructure/integrator/supabase/supabaseclient"
	"github.com/margareth/analytics-api/infrastructure/repository"
	"github.com/margareth/analytics-api/internal/api"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/scheduler"
	"github.com/margareth/analytics-api/internal/usecases/analytics"
	"github.com/margareth/analytics-api/internal/usecases/authenticating"
	"github.com/margareth/analytics-api/internal/usecases/reporting"
	"github.com/margareth/analytics-api/pkg/log"
	"github.com/margareth/analytics-api/pkg/metrics"
	"github.com/sirupsen/logrus"
)

func main() {
	configureWorkdir()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar o schema do banco")
	}

	appointmentFinder, userFinder := recordSource(cfg, conn)

	appMetrics := metrics.New()

	analyticsService := analytics.NewService(
		appointmentFinder,
		userFinder,
		analytics.WithLocation(cfg.Location()),
		analytics.WithRecorder(appMetrics),
	)

	snapshotRepo := repository.NewSnapshotRepository(conn)
	authenticator := authenticating.NewService(cfg)

	snapshotSyncService := scheduler.NewSnapshotSyncService(
		analyticsService,
		snapshotRepo,
		appMetrics,
		cfg,
	)

	if err := snapshotSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de fotografias das métricas")
	}

	server, err := api.New(cfg, api.Dependencies{
		Analytics:       analyticsService,
		Exporter:        reporting.NewExporter(analyticsService),
		Snapshots:       snapshotRepo,
		SnapshotSyncer:  snapshotSyncService,
		Authenticator:   authenticator,
		RequestObserver: appMetrics,
		MetricsHandler:  appMetrics.Handler(),
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureWorkdir faz o .env ao lado do binário ser encontrado em execuções locais
func configureWorkdir() {
	_, file, _, _ := runtime.Caller(0)
	if err := os.Chdir(path.Dir(file)); err != nil {
		logrus.WithError(err).Debug("Não foi possível mudar o diretório de trabalho")
	}
}

// dbconn cria a conexão com o banco configurado
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).WithField("driver", dbConfig.Driver).Fatal("Erro ao conectar ao banco de dados")
	}

	logrus.WithField("driver", conn.Driver()).Info("Conexão com o banco de dados estabelecida com sucesso")
	return conn
}

// recordSource escolhe de onde as visões leem agendamentos e clientes
func recordSource(cfg *config.Config, conn *database.Connection) (analytics.AppointmentFinder, analytics.UserFinder) {
	if cfg.RecordSource.Kind == config.RecordSourceSupabase {
		logrus.WithField("url", cfg.Supabase.URL).Info("Lendo registros do Supabase")
		service := supabase.New(supabaseclient.NewClient(cfg.Supabase))
		return service, service
	}

	logrus.Info("Lendo registros do banco de dados")
	return repository.NewAppointmentRepository(conn), repository.NewUserRepository(conn)
}
