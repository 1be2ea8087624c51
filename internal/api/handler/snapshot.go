package handler

import (
	"context"
	"net/http"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
)

// SnapshotReader lê a última fotografia persistida
type SnapshotReader interface {
	Latest(ctx context.Context) (*domain.Snapshot, error)
}

// GetLatestSnapshot retorna a fotografia mais recente do overview
func GetLatestSnapshot(reader SnapshotReader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		snapshot, err := reader.Latest(r.Context())
		if err != nil {
			logger.WithError(err).Error("snapshots: erro ao buscar a última fotografia")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar fotografia", nil)
			return
		}

		if snapshot == nil {
			apiErrors.WriteError(w, apiErrors.ErrSnapshotNotFound, "Nenhuma fotografia registrada", nil)
			return
		}

		writeJSON(w, logger, http.StatusOK, snapshot)
	})
}
