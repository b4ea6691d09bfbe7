package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing label, endKm below startKm).
// Handlers should map this to HTTP 400 Bad Request.
var ErrValidation = errors.New("validation error")

// ErrConflict is returned when an address with the same label already exists
// and holds different street, zip or city values.
// Handlers should map this to HTTP 409 Conflict.
var ErrConflict = errors.New("conflict")

// ErrDuplicate is returned by the repo layer when an insert violates a
// uniqueness constraint. It never leaves the service layer.
var ErrDuplicate = errors.New("already exists")

// ValidationError carries a human-readable message describing why input was
// rejected. It matches ErrValidation under errors.Is.
type ValidationError struct {
	Message string
}

// NewValidationError returns a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func (e *ValidationError) Error() string {
	return "validation error: " + e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FieldConflict holds both sides of a diverging address field, verbatim.
type FieldConflict struct {
	Existing string `json:"existing"`
	Incoming string `json:"incoming"`
}

// ConflictError is returned by address resolution when the stored address
// sharing the incoming label disagrees on at least one field.
// Nothing is written when it is returned.
type ConflictError struct {
	Existing Address                  `json:"existing"`
	Incoming AddressInput             `json:"incoming"`
	Fields   map[string]FieldConflict `json:"fields"`
}

func (e *ConflictError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("conflict: address %q differs in %s", e.Existing.Label, strings.Join(names, ", "))
}

// Is reports whether target is ErrConflict.
func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}
