package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrStockOverflow     = errors.New("el stock excede el máximo representable")
)

// ValidationError describe un campo rechazado antes de cualquier llamada remota.
// errors.Is(err, ErrInvalidInput) es verdadero para todo ValidationError.
type ValidationError struct {
	Field  string
	Reason string
	Err    error // causa opcional (ej. ErrInvalidTransition)
}

// NewValidationError construye el error para un campo.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación %s: %s", e.Field, e.Reason)
}

// Unwrap expone ErrInvalidInput y la causa, si existe.
func (e *ValidationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidInput, e.Err}
	}
	return []error{ErrInvalidInput}
}
