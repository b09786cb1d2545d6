package errors

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParseFinite parses a user-entered numeric field such as a spacing or padding.
//
// The input is rejected with ErrCodeInvalidNumeric when it is empty (after
// trimming whitespace), not a number, or not finite (NaN, ±Inf). The caller is
// expected to keep its prior state when an error is returned.
func ParseFinite(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, New(ErrCodeInvalidNumeric, "%s cannot be empty", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, New(ErrCodeInvalidNumeric, "%s must be a number, got %q", field, raw)
	}
	if err := ValidateFinite(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

// ValidateFinite rejects NaN and infinite values for the named field.
func ValidateFinite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidNumeric, "%s must be a finite number", field)
	}
	return nil
}

// ValidateNodeID validates a node or relation identifier.
//
// Validation rules:
//   - ID cannot be empty
//   - Maximum length of 256 characters
//   - No control characters or whitespace
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node id cannot be empty")
	}
	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "node id too long (max 256 characters)")
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "node id %q contains invalid characters", id)
		}
	}
	return nil
}
