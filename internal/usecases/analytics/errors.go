package analytics

import (
	"errors"
	"fmt"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/apiErrors"
)

// Erros específicos para o contexto de métricas
var (
	ErrUnknownView             = errors.New("unknown analytics view")
	ErrRecordSourceUnavailable = errors.New("record source unavailable")
	ErrAggregationPanic        = errors.New("aggregation panicked")
)

// AnalyticsError é um erro com o contexto da visão que falhou
type AnalyticsError struct {
	Err     error           // Erro base
	Code    string          // Código de erro para API
	View    domain.ViewName // Visão envolvida
	Details string          // Detalhes adicionais
}

func (e *AnalyticsError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s [%s]: %s", e.Err.Error(), e.View, e.Details)
	}
	return fmt.Sprintf("%s [%s]", e.Err.Error(), e.View)
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

func NewAnalyticsError(err error, code string, view domain.ViewName, details string) *AnalyticsError {
	return &AnalyticsError{
		Err:     err,
		Code:    code,
		View:    view,
		Details: details,
	}
}

// sourceError converte uma falha da fonte de registros em AnalyticsError
func sourceError(view domain.ViewName, err error) *AnalyticsError {
	return NewAnalyticsError(fmt.Errorf("%w: %w", ErrRecordSourceUnavailable, err), apiErrors.ErrRecordSource, view, "")
}

func unknownView(view domain.ViewName) *AnalyticsError {
	return NewAnalyticsError(ErrUnknownView, apiErrors.ErrUnknownView, view, "")
}
