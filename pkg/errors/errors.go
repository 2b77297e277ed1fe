// Package errors provides structured error types for ttgen.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the compiler, CLI and HTTP service
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages naming the offending tag, key or reference
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Compilation failures carry one of four domain codes:
//   - UNKNOWN_VARIANT: a discriminator tag matches no registered variant
//   - DUPLICATE_KEY: two components resolve to the same registry key
//   - UNRESOLVED_REFERENCE: a layout node names a component that does not exist
//   - MALFORMED_FIELD: a field fails type coercion or is missing
//
// The remaining codes describe the surrounding layer (files, formats,
// configuration, assets). All compilation errors are fatal; nothing is retried.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownVariant, "unknown component tag %q", tag)
//	if errors.Is(err, errors.ErrCodeUnknownVariant) {
//	    // Handle bad tag
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFileNotFound, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Compilation errors
	ErrCodeUnknownVariant      Code = "UNKNOWN_VARIANT"
	ErrCodeDuplicateKey        Code = "DUPLICATE_KEY"
	ErrCodeUnresolvedReference Code = "UNRESOLVED_REFERENCE"
	ErrCodeMalformedField      Code = "MALFORMED_FIELD"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound      Code = "NOT_FOUND"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"
	ErrCodeAssetNotFound Code = "ASSET_NOT_FOUND"

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
		return e.Message
	}
	return err.Error()
}

// IsCompile reports whether err carries one of the four compilation codes.
func IsCompile(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownVariant, ErrCodeDuplicateKey, ErrCodeUnresolvedReference, ErrCodeMalformedField:
		return true
	}
	return false
}

// IsInput reports whether err was caused by the caller's input rather than
// by the environment. The HTTP service maps these to 400 responses.
func IsInput(err error) bool {
	if IsCompile(err) {
		return true
	}
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidPath:
		return true
	}
	return false
}
