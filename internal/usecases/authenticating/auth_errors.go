package authenticating

import (
	"errors"
	"fmt"

	"github.com/margareth/analytics-api/pkg/apiErrors"
)

// Tipos de erros de autenticação personalizados
var (
	ErrInvalidToken          = errors.New("token inválido")
	ErrExpiredToken          = errors.New("token expirado")
	ErrMissingToken          = errors.New("token ausente")
	ErrInvalidAdminKey       = errors.New("chave de administração inválida")
	ErrAdminKeyNotConfigured = errors.New("chave de administração não configurada")
	ErrSecretNotConfigured   = errors.New("segredo de assinatura não configurado")
)

// AuthError é um erro com contexto adicional para autenticação
type AuthError struct {
	Err     error  // Erro base
	Code    string // Código de erro para API
	Details string // Detalhes adicionais
}

// Error implementa a interface error
func (e *AuthError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

// Unwrap retorna o erro subjacente
func (e *AuthError) Unwrap() error {
	return e.Err
}

func NewAuthError(err error, code string, details string) *AuthError {
	return &AuthError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// CodeOf retorna o código de API associado ao erro de autenticação
func CodeOf(err error) string {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}

	switch {
	case errors.Is(err, ErrExpiredToken):
		return apiErrors.ErrExpiredToken
	case errors.Is(err, ErrMissingToken):
		return apiErrors.ErrMissingToken
	case errors.Is(err, ErrInvalidAdminKey), errors.Is(err, ErrAdminKeyNotConfigured):
		return apiErrors.ErrInsufficientPrivilege
	default:
		return apiErrors.ErrInvalidToken
	}
}
