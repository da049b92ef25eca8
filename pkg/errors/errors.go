// Package errors provides structured error types for graphit.
//
// Every failure raised by the document data layer carries a machine-readable
// [Code] so callers (the CLI, the HTTP server) can map it to an exit status or
// response code without string matching.
//
// # Error Codes
//
// The document layer raises:
//   - VALIDATION_ERROR: input blob does not match the declared shape
//   - UNSUPPORTED_VERSION: unknown or malformed version tag
//   - DANGLING_REFERENCE: a link endpoint names a missing node
//   - DUPLICATE_KEY: two array entries share a merge key
//   - MALFORMED_DEFAULTS: a default table declares an array default of length != 1
//
// The surrounding tooling adds INVALID_INPUT, NOT_FOUND and INTERNAL_ERROR.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "expected string").WithField("nodes[0].id")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidInput, origErr, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Document errors
	ErrCodeValidation         Code = "VALIDATION_ERROR"
	ErrCodeUnsupportedVersion Code = "UNSUPPORTED_VERSION"
	ErrCodeDanglingReference  Code = "DANGLING_REFERENCE"
	ErrCodeDuplicateKey       Code = "DUPLICATE_KEY"
	ErrCodeMalformedDefaults  Code = "MALFORMED_DEFAULTS"

	// Input errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Field   string // Offending field path, e.g. "nodes[1].label" (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithField sets the offending field path and returns e.
func (e *Error) WithField(path string) *Error {
	e.Field = path
	return e
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

// GetField returns the field path attached to the first *Error in the chain.
func GetField(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message (prefixed by the field path, if any)
// without the code prefix. For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return e.Field + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
