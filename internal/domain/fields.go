package domain

import (
	"errors"
	"fmt"
	"slices"
)

// ErrUnknownField indica uma projeção com campo inexistente
var ErrUnknownField = errors.New("campo desconhecido")

func validateFields(fields []string, known []string) error {
	for _, field := range fields {
		if !slices.Contains(known, field) {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
	}
	return nil
}
