package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/margareth/analytics-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// writeJSON serializa body com o status informado
func writeJSON(w http.ResponseWriter, logger log.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.WithError(err).Error("Erro ao codificar resposta")
	}
}
