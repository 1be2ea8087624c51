package domain

// Source indica qual ramo produziu o resultado de uma visão
type Source string

const (
	// SourceComputed indica dados calculados a partir dos registros
	SourceComputed Source = "computed"
	// SourceLowData indica que havia poucos registros e a regra de baixo volume foi aplicada
	SourceLowData Source = "low_data"
	// SourceFallback indica que a visão foi substituída pelos valores padrão
	SourceFallback Source = "fallback"
)

// View é o resultado de uma visão junto com o ramo que o produziu.
// Data está sempre completamente preenchido, seja pelo cálculo ou pelo valor padrão.
type View[T any] struct {
	Name   ViewName
	Data   T
	Source Source
	Err    error
}

func (v View[T]) IsFallback() bool {
	return v.Source == SourceFallback
}
