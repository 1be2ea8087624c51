package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/margareth/analytics-api/infrastructure/repository/mocks"
	"github.com/margareth/analytics-api/internal/api/handler/router"
	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/internal/usecases/analytics"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	errSourceDown = errors.New("connection refused")
	referenceNow  = time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)
)

func TestMain(m *testing.M) {
	log.SetupTestLogger()
	m.Run()
}

// newAnalyticsService monta o serviço real sobre repositórios que sempre devolvem o mesmo resultado
func newAnalyticsService(t *testing.T, appointments []domain.Appointment, users []domain.User, err error) *analytics.Service {
	t.Helper()

	ctrl := gomock.NewController(t)
	appointmentRepo := mocks.NewMockAppointmentRepository(ctrl)
	userRepo := mocks.NewMockUserRepository(ctrl)

	appointmentRepo.EXPECT().FindAppointments(gomock.Any(), gomock.Any()).Return(appointments, err).AnyTimes()
	userRepo.EXPECT().FindUsers(gomock.Any(), gomock.Any()).Return(users, err).AnyTimes()

	return analytics.NewService(appointmentRepo, userRepo,
		analytics.WithClock(func() time.Time { return referenceNow }),
		analytics.WithLocation(time.UTC),
	)
}

func serve(handler http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestGetView(t *testing.T) {
	tests := []struct {
		name           string
		view           domain.ViewName
		sourceErr      error
		expectedSource domain.Source
		assertBody     func(t *testing.T, body []byte)
	}{
		{
			name:           "estatísticas sem registros são calculadas com zeros",
			view:           domain.ViewBusinessStats,
			expectedSource: domain.SourceComputed,
			assertBody: func(t *testing.T, body []byte) {
				var stats domain.BusinessStats
				require.NoError(t, json.Unmarshal(body, &stats))
				assert.Equal(t, domain.BusinessStats{SatisfactionRate: 92.5}, stats)
			},
		},
		{
			name:           "ranking sem registros usa os valores padrão",
			view:           domain.ViewServicePerformance,
			expectedSource: domain.SourceFallback,
			assertBody: func(t *testing.T, body []byte) {
				var ranking domain.ServiceRanking
				require.NoError(t, json.Unmarshal(body, &ranking))
				assert.Len(t, ranking, 5)
			},
		},
		{
			name:           "fonte indisponível devolve o formato completo da visão",
			view:           domain.ViewBusinessStats,
			sourceErr:      errSourceDown,
			expectedSource: domain.SourceFallback,
			assertBody: func(t *testing.T, body []byte) {
				var stats domain.BusinessStats
				require.NoError(t, json.Unmarshal(body, &stats))
				assert.Equal(t, 8, stats.TodayAppointments)
				assert.Equal(t, 4250.0, stats.MonthlyRevenue)
			},
		},
		{
			name:           "série de receita sempre tem sete dias",
			view:           domain.ViewRevenueData,
			sourceErr:      errSourceDown,
			expectedSource: domain.SourceFallback,
			assertBody: func(t *testing.T, body []byte) {
				var series domain.RevenueSeries
				require.NoError(t, json.Unmarshal(body, &series))
				require.Len(t, series, 7)
				assert.Equal(t, "Seg", series[0].Day)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newAnalyticsService(t, []domain.Appointment{}, []domain.User{}, tt.sourceErr)

			rec := serve(GetView(service, tt.view), http.MethodGet, analyticsPrefix+string(tt.view))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, string(tt.expectedSource), rec.Header().Get(SourceHeader))
			tt.assertBody(t, rec.Body.Bytes())
		})
	}
}

func TestGetView_VisaoInexistente(t *testing.T) {
	service := newAnalyticsService(t, nil, nil, nil)

	rec := serve(GetView(service, "churn"), http.MethodGet, analyticsPrefix+"churn")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrUnknownView)
	assert.Empty(t, rec.Header().Get(SourceHeader))
}

func TestGetOverview(t *testing.T) {
	service := newAnalyticsService(t, nil, nil, errSourceDown)

	rec := serve(GetOverview(service), http.MethodGet, analyticsPrefix+"overview")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "7", rec.Header().Get(FallbackViewsHeader))

	var overview domain.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &overview))
	assert.Len(t, overview.Sources, len(domain.ViewNames))
	assert.Equal(t, domain.SourceFallback, overview.Sources[domain.ViewDemandForecast])
	assert.Len(t, overview.RevenueData, 7)
	assert.True(t, overview.GeneratedAt.Equal(referenceNow))
}

type fakeExporter struct {
	overview domain.Overview
	content  string
	err      error
}

func (f *fakeExporter) Export(_ context.Context, w io.Writer) (domain.Overview, error) {
	if f.err != nil {
		return f.overview, f.err
	}
	_, err := io.WriteString(w, f.content)
	return f.overview, err
}

func TestExportWorkbook(t *testing.T) {
	tests := []struct {
		name           string
		exporter       *fakeExporter
		expectedStatus int
		expectedType   string
		expectedBody   string
	}{
		{
			name: "planilha gerada",
			exporter: &fakeExporter{
				overview: domain.Overview{
					GeneratedAt: referenceNow,
					Sources:     map[domain.ViewName]domain.Source{domain.ViewQuickStats: domain.SourceFallback},
				},
				content: "PK-conteudo",
			},
			expectedStatus: http.StatusOK,
			expectedType:   xlsxContentType,
			expectedBody:   "PK-conteudo",
		},
		{
			name:           "falha ao gerar planilha",
			exporter:       &fakeExporter{err: errors.New("disco cheio")},
			expectedStatus: http.StatusInternalServerError,
			expectedType:   "application/json",
			expectedBody:   apiErrors.ErrExportFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(ExportWorkbook(tt.exporter), http.MethodGet, analyticsPrefix+"export.xlsx")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Equal(t, tt.expectedType, rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), tt.expectedBody)

			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, `attachment; filename="margareth-analytics-2026-10-15.xlsx"`, rec.Header().Get("Content-Disposition"))
				assert.Equal(t, "1", rec.Header().Get(FallbackViewsHeader))
			}
		})
	}
}

func TestGetLatestSnapshot(t *testing.T) {
	tests := []struct {
		name           string
		snapshot       *domain.Snapshot
		err            error
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "fotografia encontrada",
			snapshot:       &domain.Snapshot{ID: "abc123def456", TakenAt: referenceNow, FallbackViews: 2},
			expectedStatus: http.StatusOK,
			expectedBody:   `"id":"abc123def456"`,
		},
		{
			name:           "nenhuma fotografia registrada",
			expectedStatus: http.StatusNotFound,
			expectedBody:   apiErrors.ErrSnapshotNotFound,
		},
		{
			name:           "erro no banco",
			err:            errors.New("database is locked"),
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   apiErrors.ErrDatabaseOperation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mocks.NewMockSnapshotRepository(ctrl)
			repo.EXPECT().Latest(gomock.Any()).Return(tt.snapshot, tt.err)

			rec := serve(GetLatestSnapshot(repo), http.MethodGet, analyticsPrefix+"snapshots/latest")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

type fakeSyncer struct {
	accept    bool
	triggered int
}

func (f *fakeSyncer) TriggerManualSync() bool {
	f.triggered++
	return f.accept
}

func (f *fakeSyncer) GetStatus() map[string]any {
	return map[string]any{"sync_running": !f.accept}
}

func TestRunSnapshotSync(t *testing.T) {
	tests := []struct {
		name           string
		accept         bool
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "fotografia iniciada",
			accept:         true,
			expectedStatus: http.StatusAccepted,
			expectedBody:   `"type":"snapshot"`,
		},
		{
			name:           "fotografia já em andamento",
			accept:         false,
			expectedStatus: http.StatusConflict,
			expectedBody:   apiErrors.ErrSyncAlreadyActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &fakeSyncer{accept: tt.accept}

			rec := serve(RunSnapshotSync(syncer), http.MethodPost, "/v1/cron/snapshot/run")

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
			assert.Equal(t, 1, syncer.triggered)
		})
	}
}

func TestGetCronStatus(t *testing.T) {
	rec := serve(GetCronStatus(&fakeSyncer{accept: false}), http.MethodGet, "/v1/cron/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"snapshot":{"sync_running":true}}`, rec.Body.String())
}

func TestHealthRoutes(t *testing.T) {
	rt := router.New(router.WithRoutes(Healthcheck("2.1.0")...))

	rec := serve(rt, http.MethodGet, "/")
	assert.JSONEq(t, `{"message":"Margareth Analytics API","version":"2.1.0","status":"online"}`, rec.Body.String())

	rec = serve(Health("2.1.0", func() time.Time { return referenceNow }), http.MethodGet, "/health")
	assert.JSONEq(t, `{"status":"healthy","timestamp":"2026-10-15T10:00:00Z","version":"2.1.0"}`, rec.Body.String())

	rec = serve(rt, http.MethodGet, "/healthcheck")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}

func TestAnalyticsRoutes(t *testing.T) {
	service := newAnalyticsService(t, []domain.Appointment{}, []domain.User{}, nil)
	exporter := &fakeExporter{content: "xlsx"}

	rt := router.New(router.WithRoutes(Analytics(service, exporter)...))

	assert.Len(t, rt.Registered(), len(domain.ViewNames)+2)

	for _, name := range domain.ViewNames {
		rec := serve(rt, http.MethodGet, analyticsPrefix+string(name))
		assert.Equal(t, http.StatusOK, rec.Code, name)
		assert.NotEmpty(t, rec.Header().Get(SourceHeader), name)
	}

	rec := serve(rt, http.MethodGet, analyticsPrefix+"churn")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(rt, http.MethodPost, analyticsPrefix+"overview")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = serve(rt, http.MethodGet, analyticsPrefix+"export.xlsx")
	assert.True(t, bytes.Equal([]byte("xlsx"), rec.Body.Bytes()))
}
