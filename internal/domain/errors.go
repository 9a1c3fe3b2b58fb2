package domain

import (
	"errors"
	"fmt"
)

// Базовые виды ошибок. Слой HTTP различает их через errors.Is.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
)

// ValidationError описывает некорректное значение конкретного поля.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError создает ошибку валидации для поля field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

// Is позволяет сравнивать ошибку с ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
