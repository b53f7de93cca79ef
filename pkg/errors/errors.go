// Package errors provides structured error types for the codemeta toolkit.
//
// Every failure that crosses a package boundary carries a machine-readable
// [Code]. The CLI and HTTP server use the code to pick an exit status or
// response status, and bulk runs record it per item.
//
// # Error Codes
//
// The four codes of the metadata pipeline are:
//   - SOURCE_UNAVAILABLE: repository facts could not be fetched (retryable)
//   - MALFORMED_DOCUMENT: input is not parseable JSON or not an object
//   - VALIDATION_WARNING: non-fatal issue, collected and reported
//   - SCHEMA_VERSION_UNSUPPORTED: target version outside {2.0, 3.0}
//
// The remaining codes cover input validation, network and configuration
// failures of the surrounding tooling.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "invalid repository url: %s", raw)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.SourceUnavailable(origErr, "fetch %s", url)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Pipeline errors
	ErrCodeSourceUnavailable  Code = "SOURCE_UNAVAILABLE"
	ErrCodeMalformedDocument  Code = "MALFORMED_DOCUMENT"
	ErrCodeValidationWarning  Code = "VALIDATION_WARNING"
	ErrCodeUnsupportedVersion Code = "SCHEMA_VERSION_UNSUPPORTED"

	// Input validation errors
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidURL      Code = "INVALID_URL"
	ErrCodeInvalidPackage  Code = "INVALID_PACKAGE"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeTimeout     Code = "TIMEOUT"
	ErrCodeRateLimited Code = "RATE_LIMITED"

	// Configuration errors
	ErrCodeConfig Code = "CONFIG_ERROR"

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

// SourceUnavailable wraps a failed repository fetch.
func SourceUnavailable(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeSourceUnavailable, cause, format, args...)
}

// MalformedDocument wraps a document that could not be decoded as a JSON object.
func MalformedDocument(cause error, format string, args ...any) *Error {
	return Wrap(ErrCodeMalformedDocument, cause, format, args...)
}

// UnsupportedVersion reports a schema version outside the supported set.
func UnsupportedVersion(version string) *Error {
	return New(ErrCodeUnsupportedVersion, "unsupported schema version %q (want 2.0 or 3.0)", version)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s", e.Message, UserMessage(e.Cause))
		}
		return e.Message
	}
	return err.Error()
}

// RateLimitedError provides additional information for rate-limited responses.
type RateLimitedError struct {
	RetryAfter int // Seconds to wait before retrying
	Message    string
}

// Error implements the error interface.
func (e *RateLimitedError) Error() string {
	if e.Message != "" {
		return "rate limited: " + e.Message
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited: retry after %d seconds", e.RetryAfter)
	}
	return "rate limited"
}

// Code returns the error code for this error type.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
