package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Common validation errors
var (
	ErrInvalidUUID = fmt.Errorf("invalid UUID format")
	ErrInvalidDate = fmt.Errorf("invalid date format")
	ErrEmptyValue  = fmt.Errorf("value cannot be empty")
)

// ValidateUUID checks if a string is a valid UUID
func ValidateUUID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidUUID, id)
	}
	return nil
}

// ParseDate parses a required YYYY-MM-DD query parameter.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrEmptyValue
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidDate, value)
	}
	return t.UTC(), nil
}

// ParseDateOrDefault parses an optional YYYY-MM-DD parameter, returning def
// when the value is empty.
func ParseDateOrDefault(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return ParseDate(value)
}
