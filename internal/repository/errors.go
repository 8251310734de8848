package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrNotFound is returned when a lookup matches no document
	ErrNotFound = errors.New("document not found")
	// ErrStoreUnavailable covers connectivity failures and timeouts
	ErrStoreUnavailable = errors.New("document store unavailable")
	// ErrDuplicateKey is matched by every *DuplicateKeyError
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError reports which unique field rejected a write
type DuplicateKeyError struct {
	Field string
	Err   error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate value for %s", e.Field)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// translateError maps driver errors onto the repository error values.
// Anything it does not recognise is returned unchanged.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return &DuplicateKeyError{Field: duplicateField(err), Err: err}
	case mongo.IsTimeout(err),
		mongo.IsNetworkError(err),
		errors.Is(err, mongo.ErrClientDisconnected),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}

// duplicateField maps the index named in an E11000 message to its field.
// Only the index name is matched; the message also echoes the duplicate
// value, which may contain anything.
func duplicateField(err error) string {
	msg := err.Error()
	i := strings.Index(msg, "index: ")
	if i < 0 {
		return "unknown"
	}
	name := strings.Fields(msg[i+len("index: "):])
	if len(name) == 0 {
		return "unknown"
	}
	switch strings.TrimRight(name[0], ",]") {
	case licenseIndexName:
		return "licenseNumber"
	case emailIndexName:
		return "email"
	}
	return "unknown"
}
