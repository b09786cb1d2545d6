// Package errors provides structured error types for the Twofish layout engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages ("operation not possible")
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The layout engine distinguishes three recoverable failure classes:
//   - CONTRADICTORY_CONSTRAINT: two fixed children disagree on an alignment
//     coordinate, or distribute anchors imply different spacings
//   - UNDERDETERMINED_RELATION: a relation references fewer than two children
//   - INVALID_NUMERIC_INPUT: a numeric parameter is empty, non-numeric or not finite
//
// The remaining codes cover structural problems (INVALID_ORDER for node lists that
// violate dependency order, NOT_FOUND, INVALID_FORMAT) and unexpected failures.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeContradictoryConstraint, "children disagree on %s", axis)
//	if errors.Is(err, errors.ErrCodeContradictoryConstraint) {
//	    // Surface "operation not possible" to the user
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode scene %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Constraint errors
	ErrCodeContradictoryConstraint Code = "CONTRADICTORY_CONSTRAINT"
	ErrCodeUnderdetermined         Code = "UNDERDETERMINED_RELATION"

	// Input validation errors
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidNumeric Code = "INVALID_NUMERIC_INPUT"
	ErrCodeInvalidOrder   Code = "INVALID_ORDER"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Code == ErrCodeContradictoryConstraint {
			return "operation not possible: " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
