package handler

import (
	"net/http"

	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
)

// CronJobTypeSnapshot identifica a fotografia diária das métricas
const CronJobTypeSnapshot = "snapshot"

// SnapshotSyncer é o agendador de fotografias exposto para execução manual
type SnapshotSyncer interface {
	TriggerManualSync() bool
	GetStatus() map[string]any
}

// RunSnapshotSync dispara manualmente a fotografia das métricas
func RunSnapshotSync(syncer SnapshotSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context()).WithField("job", CronJobTypeSnapshot)
		logger.Info("INIT - RunSnapshotSync")

		if !syncer.TriggerManualSync() {
			apiErrors.WriteError(w, apiErrors.ErrSyncAlreadyActive, "Fotografia das métricas já em andamento", nil)
			return
		}

		writeJSON(w, logger, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    CronJobTypeSnapshot,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(syncer SnapshotSyncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())
		logger.Info("INIT - GetCronStatus")

		writeJSON(w, logger, http.StatusOK, map[string]any{
			CronJobTypeSnapshot: syncer.GetStatus(),
		})
	})
}
