package middleware

import (
	"net/http"
	"strconv"

	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
	"golang.org/x/time/rate"
)

// RateLimit aplica um limite global de requisições; rps zero desliga o limite
func RateLimit(rps float64, burst int) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}

	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	retryAfter := strconv.Itoa(max(1, int(1/rps)))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if publicPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if !limiter.Allow() {
				log.ForContext(r.Context()).WithField("path", r.URL.Path).Warn("Limite de requisições excedido")
				w.Header().Set("Retry-After", retryAfter)
				apiErrors.WriteError(w, apiErrors.ErrRateLimited, "Muitas requisições, tente novamente em instantes", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
