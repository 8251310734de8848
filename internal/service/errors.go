package service

import (
	"errors"
	"fmt"
	"strings"

	"hospital-locator/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrAccountInactive    = errors.New("hospital account is inactive")
	ErrInvalidToken       = errors.New("could not validate credentials")
	ErrNotFound           = errors.New("hospital not found")
	ErrStoreUnavailable   = errors.New("database service unavailable, please try again later")
	ErrInternal           = errors.New("an internal server error occurred")
)

// FieldViolation is one rejected input field
type FieldViolation struct {
	Field   string
	Message string
}

// ValidationError reports bad input shape or range, field by field
type ValidationError struct {
	Violations []FieldViolation
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Violations: []FieldViolation{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+" "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError reports which unique field is already taken
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already registered", e.Field)
}

// storeError maps a repository failure onto the service taxonomy. Unexpected
// errors are logged in full and replaced with ErrInternal.
func storeError(logger *zap.Logger, op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrStoreUnavailable):
		logger.Warn("Document store unavailable", zap.String("op", op), zap.Error(err))
		return ErrStoreUnavailable
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	}
	logger.Error("Document store operation failed", zap.String("op", op), zap.Error(err))
	return ErrInternal
}
