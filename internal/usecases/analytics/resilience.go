package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/margareth/analytics-api/internal/domain"
	"github.com/margareth/analytics-api/pkg/apiErrors"
	"github.com/margareth/analytics-api/pkg/log"
)

// computeFunc calcula uma visão e informa o ramo usado. Um erro descarta o resultado.
type computeFunc[T any] func(ctx context.Context) (T, domain.Source, error)

// guard executa o cálculo de uma visão e garante um resultado completo:
// erros e panics viram o valor padrão da visão, marcado como fallback.
func guard[T any](
	ctx context.Context,
	s *Service,
	name domain.ViewName,
	compute computeFunc[T],
	fallback func() T,
) (view domain.View[T]) {
	start := time.Now()
	view.Name = name

	defer func() {
		if r := recover(); r != nil {
			view.Data = fallback()
			view.Source = domain.SourceFallback
			view.Err = NewAnalyticsError(ErrAggregationPanic, apiErrors.ErrAggregation, name, fmt.Sprint(r))
		}
		s.record(ctx, view.Name, view.Source, view.Err, time.Since(start))
	}()

	data, source, err := compute(ctx)
	if err != nil {
		view.Data = fallback()
		view.Source = domain.SourceFallback
		view.Err = err
		return view
	}

	view.Data = data
	view.Source = source
	return view
}

func (s *Service) record(ctx context.Context, name domain.ViewName, source domain.Source, err error, elapsed time.Duration) {
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"view":   name,
		"source": source,
	})

	switch {
	case err != nil:
		logger.WithError(err).Warnf("Visão %s substituída pelos valores padrão", name)
	case source != domain.SourceComputed:
		logger.Infof("Visão %s calculada pelo ramo %s", name, source)
	default:
		logger.Debugf("Visão %s calculada em %s", name, elapsed)
	}

	if s.recorder != nil {
		s.recorder.RecordOutcome(name, source, elapsed)
	}
}

// erase descarta o tipo concreto da visão para o despacho por nome
func erase[T any](view domain.View[T]) domain.View[any] {
	return domain.View[any]{
		Name:   view.Name,
		Data:   view.Data,
		Source: view.Source,
		Err:    view.Err,
	}
}
