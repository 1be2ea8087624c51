package middleware

import (
	"net/http"

	"github.com/margareth/analytics-api/internal/usecases/authenticating"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
)

// AdminKeyHeader carrega a chave de administração em texto puro
const AdminKeyHeader = "X-Admin-Key"

// AdminOnly libera a rota para tokens com papel admin ou para quem envia a chave de administração
func AdminOnly(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims, ok := ClaimsFromContext(r.Context()); ok && claims.IsAdmin() {
				next.ServeHTTP(w, r)
				return
			}

			if err := authService.VerifyAdminKey(r.Header.Get(AdminKeyHeader)); err != nil {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"path":  r.URL.Path,
					"error": err.Error(),
				}).Warn("Acesso administrativo negado")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
