// Package errors provides structured error types for ssaview.
//
// Every failure surfaced by the layout engine carries a machine-readable
// [Code] so callers can tell a bad item index from a bad configuration
// without string matching:
//   - INDEX_OUT_OF_RANGE: an item index outside [0, Len())
//   - INVALID_CONFIGURATION: rejected before any iteration runs
//   - NUMERIC_DEGENERACY: reportable, never fatal (all desired distances zero)
//   - INVALID_INPUT: malformed vector files or reports
//
// # Usage
//
//	err := errors.New(errors.ErrCodeIndex, "item %d out of range [0, %d)", i, n)
//	if errors.Is(err, errors.ErrCodeIndex) {
//	    // Handle bad index
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Call-level failures
	ErrCodeIndex Code = "INDEX_OUT_OF_RANGE"

	// Construction failures
	ErrCodeConfiguration Code = "INVALID_CONFIGURATION"

	// Recoverable conditions
	ErrCodeNumericDegeneracy Code = "NUMERIC_DEGENERACY"

	// Input parsing
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
		return e.Message
	}
	return err.Error()
}

// IndexOutOfRange builds the error returned for an item index outside [0, n).
func IndexOutOfRange(i, n int) *Error {
	return New(ErrCodeIndex, "item index %d out of range [0, %d)", i, n)
}

// Configuration builds an INVALID_CONFIGURATION error.
func Configuration(format string, args ...any) *Error {
	return New(ErrCodeConfiguration, format, args...)
}
