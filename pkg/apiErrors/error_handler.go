package apiErrors

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Códigos de erro da API
const (
	// Erros de autenticação (1000-1999)
	ErrInvalidToken          = "AUTH_001" // Token inválido
	ErrExpiredToken          = "AUTH_002" // Token expirado
	ErrMissingToken          = "AUTH_003" // Token ausente
	ErrInsufficientPrivilege = "AUTH_004" // Chave de administração inválida

	// Erros de validação (2000-2999)
	ErrInvalidRequest = "VAL_001" // Requisição inválida
	ErrInvalidFormat  = "VAL_002" // Formato de dados inválido
	ErrRateLimited    = "VAL_003" // Limite de requisições excedido

	// Erros de métricas (3000-3999)
	ErrUnknownView       = "ANL_001" // Visão analítica inexistente
	ErrRecordSource      = "ANL_002" // Fonte de registros indisponível
	ErrAggregation       = "ANL_003" // Falha inesperada durante a agregação
	ErrSnapshotNotFound  = "ANL_004" // Nenhuma fotografia registrada
	ErrExportFailed      = "ANL_005" // Falha ao gerar a planilha
	ErrSyncAlreadyActive = "ANL_006" // Sincronização já em andamento

	// Erros do servidor (5000-5999)
	ErrInternalServer    = "SRV_001" // Erro interno do servidor
	ErrDatabaseOperation = "SRV_002" // Erro de operação de banco de dados
	ErrExternalService   = "SRV_003" // Erro em serviço externo
)

// Mapeamento de códigos de erro para status HTTP
var httpStatusMap = map[string]int{
	ErrInvalidToken:          http.StatusUnauthorized,
	ErrExpiredToken:          http.StatusUnauthorized,
	ErrMissingToken:          http.StatusUnauthorized,
	ErrInsufficientPrivilege: http.StatusForbidden,
	ErrInvalidRequest:        http.StatusBadRequest,
	ErrInvalidFormat:         http.StatusBadRequest,
	ErrRateLimited:           http.StatusTooManyRequests,
	ErrUnknownView:           http.StatusNotFound,
	ErrRecordSource:          http.StatusBadGateway,
	ErrAggregation:           http.StatusInternalServerError,
	ErrSnapshotNotFound:      http.StatusNotFound,
	ErrExportFailed:          http.StatusInternalServerError,
	ErrSyncAlreadyActive:     http.StatusConflict,
	ErrInternalServer:        http.StatusInternalServerError,
	ErrDatabaseOperation:     http.StatusInternalServerError,
	ErrExternalService:       http.StatusBadGateway,
}

// APIError representa um erro de API padronizado
type APIError struct {
	Code    string `json:"code"`              // Código de erro para o cliente
	Message string `json:"message,omitempty"` // Mensagem descritiva (opcional)
	Details any    `json:"details,omitempty"` // Detalhes adicionais (opcional)
}

// StatusFor retorna o status HTTP associado ao código
func StatusFor(code string) int {
	status, exists := httpStatusMap[code]
	if !exists {
		return http.StatusInternalServerError
	}
	return status
}

// WriteError escreve o erro padronizado para a resposta HTTP
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(code))
	_ = json.NewEncoder(w).Encode(apiErr)
}

// FromError cria um erro de API a partir de um erro Go
// Útil para quando você quer envolver um erro existente em um erro de API
func FromError(err error, code string) APIError {
	if err == nil {
		return APIError{
			Code:    ErrInternalServer,
			Message: "Erro desconhecido",
		}
	}

	return APIError{
		Code:    code,
		Message: err.Error(),
	}
}
