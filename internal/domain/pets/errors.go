package pets

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrNotFound               = errors.New("pet not found")
	ErrConcurrentModification = errors.New("pet was modified concurrently")
)

// InvalidValueError se devuelve al construir un valor que viola su invariante.
type InvalidValueError struct {
	Field  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidValueError) Is(target error) bool { return target == ErrInvalidInput }

// NotFoundError: Save recibió un id que no existe en el store.
type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("cannot update non-existent pet with id %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ConcurrentModificationError reporta un conflicto de versión (optimistic lock).
// El caller decide si recarga y reintenta; el repositorio nunca reintenta.
type ConcurrentModificationError struct {
	ID       int64
	Expected int64
	Actual   int64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf(
		"optimistic lock failure for pet %d: expected version %d but found version %d",
		e.ID, e.Expected, e.Actual,
	)
}

func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}
