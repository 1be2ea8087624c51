package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/margareth/analytics-api/infrastructure/repository/mocks"
	"github.com/margareth/analytics-api/internal/config"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type stubOverview struct {
	overview domain.Overview
}

func (s stubOverview) Overview(context.Context) domain.Overview {
	return s.overview
}

type stubRecorder struct {
	success       []bool
	fallbackViews int
}

func (r *stubRecorder) RecordSnapshot(success bool, fallbackViews int) {
	r.success = append(r.success, success)
	r.fallbackViews = fallbackViews
}

var syncNow = time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)

func newTestSyncService(t *testing.T, enabled bool) (*SnapshotSyncService, *mocks.MockSnapshotRepository, *stubRecorder) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := mocks.NewMockSnapshotRepository(ctrl)
	recorder := &stubRecorder{}

	overview := domain.Overview{
		BusinessStats: domain.BusinessStats{TodayAppointments: 4},
		Sources: map[domain.ViewName]domain.Source{
			domain.ViewBusinessStats:  domain.SourceComputed,
			domain.ViewQuickStats:     domain.SourceFallback,
			domain.ViewDemographics:   domain.SourceFallback,
			domain.ViewClientSegments: domain.SourceLowData,
		},
	}

	cfg := &config.Config{
		App: config.App{Timezone: "UTC"},
		SnapshotSync: config.SnapshotSync{
			CronSchedule:  "0 2 * * *",
			Enabled:       enabled,
			RetentionDays: 90,
		},
	}

	service := NewSnapshotSyncService(stubOverview{overview: overview}, repo, recorder, cfg)
	service.clock = func() time.Time { return syncNow }
	service.generateID = func() (string, error) { return "snap01", nil }

	return service, repo, recorder
}

func TestSnapshotSyncService_RunOnce(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(repo *mocks.MockSnapshotRepository)
		wantErr  bool
		validate func(t *testing.T, service *SnapshotSyncService, snapshot *domain.Snapshot, recorder *stubRecorder)
	}{
		{
			name: "Fotografia salva e fotografias antigas removidas",
			setup: func(repo *mocks.MockSnapshotRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, snapshot *domain.Snapshot) error {
						assert.Equal(t, "snap01", snapshot.ID)
						assert.Equal(t, 2, snapshot.FallbackViews)
						assert.True(t, syncNow.Equal(snapshot.TakenAt))
						return nil
					})

				repo.EXPECT().
					DeleteOlderThan(gomock.Any(), syncNow.AddDate(0, 0, -90)).
					Return(int64(3), nil)
			},
			validate: func(t *testing.T, service *SnapshotSyncService, snapshot *domain.Snapshot, recorder *stubRecorder) {
				require.NotNil(t, snapshot)
				assert.Equal(t, 4, snapshot.Overview.BusinessStats.TodayAppointments)
				assert.Equal(t, []bool{true}, recorder.success)
				assert.Equal(t, 2, recorder.fallbackViews)

				status := service.GetStatus()
				assert.Equal(t, "snap01", status["last_snapshot_id"])
				assert.Equal(t, "", status["last_error"])
				assert.Equal(t, false, status["sync_running"])
			},
		},
		{
			name: "Erro ao salvar não aplica retenção",
			setup: func(repo *mocks.MockSnapshotRepository) {
				repo.EXPECT().
					Save(gomock.Any(), gomock.Any()).
					Return(errors.New("disk full"))
			},
			wantErr: true,
			validate: func(t *testing.T, service *SnapshotSyncService, snapshot *domain.Snapshot, recorder *stubRecorder) {
				assert.Nil(t, snapshot)
				assert.Equal(t, []bool{false}, recorder.success)
				assert.Contains(t, service.GetStatus()["last_error"], "disk full")
			},
		},
		{
			name: "Erro na retenção não invalida a fotografia",
			setup: func(repo *mocks.MockSnapshotRepository) {
				repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
				repo.EXPECT().
					DeleteOlderThan(gomock.Any(), gomock.Any()).
					Return(int64(0), errors.New("locked"))
			},
			validate: func(t *testing.T, service *SnapshotSyncService, snapshot *domain.Snapshot, recorder *stubRecorder) {
				require.NotNil(t, snapshot)
				assert.Equal(t, []bool{true}, recorder.success)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repo, recorder := newTestSyncService(t, true)
			tt.setup(repo)

			snapshot, err := service.RunOnce(context.Background())

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			tt.validate(t, service, snapshot, recorder)
		})
	}
}

func TestSnapshotSyncService_RunOnce_EmAndamento(t *testing.T) {
	service, _, recorder := newTestSyncService(t, true)
	service.syncRunning = true

	snapshot, err := service.RunOnce(context.Background())

	assert.ErrorIs(t, err, ErrSyncRunning)
	assert.Nil(t, snapshot)
	assert.Empty(t, recorder.success)
	assert.False(t, service.TriggerManualSync())
}

func TestSnapshotSyncService_Start_Desabilitado(t *testing.T) {
	service, _, _ := newTestSyncService(t, false)

	assert.NoError(t, service.Start(context.Background()))
	assert.Equal(t, false, service.GetStatus()["sync_enabled"])
}

func TestSnapshotSyncService_Start_CronInvalido(t *testing.T) {
	service, _, _ := newTestSyncService(t, true)
	service.config.CronSchedule = "não é cron"

	assert.Error(t, service.Start(context.Background()))
}
