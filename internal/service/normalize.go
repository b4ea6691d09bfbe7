package service

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pkordes/fahrtenbuch/internal/domain"
)

// cleanText trims s and maps blank input to nil.
// Optional text columns never hold the empty string.
func cleanText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// optionalText is cleanText for plain strings.
func optionalText(s string) *string {
	return cleanText(&s)
}

// normalizeField returns the form used to decide whether two address field values
// say the same thing: trimmed and lower-cased.
// A Caser is stateful, so each call gets its own.
func normalizeField(s *string) string {
	if s == nil {
		return ""
	}
	return cases.Lower(language.Und).String(strings.TrimSpace(*s))
}

// isUUID is an ozzo-validation rule for string identifiers.
func isUUID(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil // Required reports blanks.
	}
	if _, err := uuid.Parse(s); err != nil {
		return validation.NewError("validation_is_uuid", "must be a valid id")
	}
	return nil
}

// validationError converts the result of an ozzo validation into a
// domain.ValidationError, or returns nil when err is nil.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	return domain.NewValidationError("%s", err.Error())
}
