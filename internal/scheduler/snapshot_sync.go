package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/margareth/analytics-api/infrastructure/repository"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrSyncRunning indica que já existe uma fotografia em andamento
var ErrSyncRunning = errors.New("snapshot sync already running")

// OverviewProvider calcula o overview que será fotografado
type OverviewProvider interface {
	Overview(ctx context.Context) domain.Overview
}

// SnapshotRecorder recebe o resultado de cada execução
type SnapshotRecorder interface {
	RecordSnapshot(success bool, fallbackViews int)
}

// SnapshotSyncConfig representa a configuração do agendador de fotografias
type SnapshotSyncConfig struct {
	CronSchedule  string
	RetentionDays int
	SyncEnabled   bool
}

// SnapshotSyncService fotografa periodicamente todas as visões e remove fotografias antigas
type SnapshotSyncService struct {
	scheduler           *gocron.Scheduler
	config              SnapshotSyncConfig
	analytics           OverviewProvider
	snapshotRepo        repository.SnapshotRepository
	recorder            SnapshotRecorder
	clock               func() time.Time
	generateID          func() (string, error)
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSnapshotID      string
	lastError           string
}

// NewSnapshotSyncService cria uma nova instância do serviço de fotografias
func NewSnapshotSyncService(
	analytics OverviewProvider,
	snapshotRepo repository.SnapshotRepository,
	recorder SnapshotRecorder,
	appConfig *config.Config,
) *SnapshotSyncService {
	syncConfig := SnapshotSyncConfig{
		CronSchedule:  appConfig.SnapshotSync.CronSchedule,
		RetentionDays: appConfig.SnapshotSync.RetentionDays,
		SyncEnabled:   appConfig.SnapshotSync.Enabled,
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule":  syncConfig.CronSchedule,
		"retention_days": syncConfig.RetentionDays,
		"sync_enabled":   syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de fotografias carregada")

	return &SnapshotSyncService{
		scheduler:    gocron.NewScheduler(appConfig.Location()),
		config:       syncConfig,
		analytics:    analytics,
		snapshotRepo: snapshotRepo,
		recorder:     recorder,
		clock:        time.Now,
		generateID:   utils.GenerateID,
	}
}

// Start inicia o agendador
func (s *SnapshotSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Fotografia diária das métricas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de fotografias das métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrSyncRunning) {
			logrus.WithError(err).Error("Erro na fotografia agendada das métricas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar fotografia das métricas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de fotografias das métricas")
		s.scheduler.Stop()
	}()

	return nil
}

// RunOnce fotografa o overview atual e aplica a política de retenção
func (s *SnapshotSyncService) RunOnce(ctx context.Context) (*domain.Snapshot, error) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		return nil, ErrSyncRunning
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.clock()
	s.syncMutex.Unlock()

	snapshot, err := s.takeSnapshot(ctx)

	s.syncMutex.Lock()
	s.syncRunning = false
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
		s.lastSnapshotID = snapshot.ID
		s.lastSyncCompletedAt = s.clock()
	}
	s.syncMutex.Unlock()

	if s.recorder != nil {
		fallbackViews := 0
		if snapshot != nil {
			fallbackViews = snapshot.FallbackViews
		}
		s.recorder.RecordSnapshot(err == nil, fallbackViews)
	}

	return snapshot, err
}

func (s *SnapshotSyncService) takeSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	startTime := s.clock()
	logrus.WithField("job", "snapshot_sync").Info("Iniciando fotografia das métricas")

	id, err := s.generateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id da fotografia: %w", err)
	}

	overview := s.analytics.Overview(ctx)
	snapshot := &domain.Snapshot{
		ID:            id,
		TakenAt:       startTime,
		FallbackViews: overview.FallbackCount(),
		Overview:      overview,
	}

	if err := s.snapshotRepo.Save(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("erro ao salvar fotografia: %w", err)
	}

	if s.config.RetentionDays > 0 {
		cutoff := startTime.AddDate(0, 0, -s.config.RetentionDays)
		deleted, err := s.snapshotRepo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			// A fotografia nova já foi salva
			logrus.WithError(err).Warn("Erro ao remover fotografias antigas")
		} else if deleted > 0 {
			logrus.WithField("deleted", deleted).Info("Fotografias antigas removidas")
		}
	}

	logrus.WithFields(logrus.Fields{
		"job":            "snapshot_sync",
		"snapshot_id":    snapshot.ID,
		"fallback_views": snapshot.FallbackViews,
		"duration":       s.clock().Sub(startTime).String(),
	}).Info("Fotografia das métricas concluída")

	return snapshot, nil
}

// TriggerManualSync inicia manualmente uma fotografia; retorna false se já houver uma em andamento
func (s *SnapshotSyncService) TriggerManualSync() bool {
	s.syncMutex.Lock()
	running := s.syncRunning
	s.syncMutex.Unlock()

	if running {
		logrus.Info("Fotografia das métricas já em andamento, ignorando solicitação manual")
		return false
	}

	logrus.Info("Iniciando fotografia manual das métricas")
	go func() {
		if _, err := s.RunOnce(context.Background()); err != nil && !errors.Is(err, ErrSyncRunning) {
			logrus.WithError(err).Error("Erro na fotografia manual das métricas")
		}
	}()

	return true
}

// GetStatus retorna o status atual do agendador
func (s *SnapshotSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"retention_days":         s.config.RetentionDays,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_snapshot_id":       s.lastSnapshotID,
		"last_error":             s.lastError,
	}
}
