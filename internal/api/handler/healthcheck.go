package handler

import (
	"net/http"
	"time"

	"github.com/margareth/analytics-api/pkg/log"
	"github.com/sirupsen/logrus"
)

const serviceName = "Margareth Analytics API"

func HealthcheckHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte(time.Now().String()))
		if err != nil {
			logrus.WithError(err).Warn("error responding to healthcheck")
		}
	})
}

// Root apresenta o serviço
func Root(version string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log.ForContext(r.Context()), http.StatusOK, map[string]string{
			"message": serviceName,
			"version": version,
			"status":  "online",
		})
	})
}

// Health responde o estado do serviço com o horário atual
func Health(version string, clock func() time.Time) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, log.ForContext(r.Context()), http.StatusOK, map[string]string{
			"status":    "healthy",
			"timestamp": clock().Format(time.RFC3339),
			"version":   version,
		})
	})
}
