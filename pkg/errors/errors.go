// Package errors provides the coded error type used throughout netgrid.
//
// Every unrecoverable condition raised by the placement-and-routing core is
// reported as an [*Error] carrying a machine-readable [Code], so callers can
// test for a specific failure without string matching and without the
// process aborting.
//
// # Error Codes
//
//   - CIRCULAR_DEPENDENCY: stage layering could not make progress
//   - UNUSED_NET: a net is produced but never consumed
//   - NET_NOT_FOUND: a required net is missing from a channel layout
//   - UNPLACED_GATE, ALREADY_PLACED, NOT_PLACED: placement lifecycle violations
//   - OUT_OF_RANGE: a grid coordinate exceeds the addressable bound
//   - INVALID_*: malformed input
//   - INTERNAL_ERROR: a broken internal invariant
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNetNotFound, "net %d not in layout", id)
//	if errors.Is(err, errors.ErrCodeNetNotFound) {
//	    // Handle missing net
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeUnknownGate   Code = "UNKNOWN_GATE"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Layering errors
	ErrCodeCircularDependency Code = "CIRCULAR_DEPENDENCY"
	ErrCodeUnusedNet          Code = "UNUSED_NET"

	// Routing errors
	ErrCodeNetNotFound Code = "NET_NOT_FOUND"

	// Placement errors
	ErrCodeUnplacedGate  Code = "UNPLACED_GATE"
	ErrCodeAlreadyPlaced Code = "ALREADY_PLACED"
	ErrCodeNotPlaced     Code = "NOT_PLACED"

	// Grid errors
	ErrCodeOutOfRange Code = "OUT_OF_RANGE"

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
// For *Error types, returns the message and its causes without code prefixes.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return err.Error()
	}
	if e.Cause != nil {
		return e.Message + ": " + UserMessage(e.Cause)
	}
	return e.Message
}

// UnusedNetError lists every net that is produced by some stage but never
// consumed by a later one. It unwraps to an ErrCodeUnusedNet *Error.
type UnusedNetError struct {
	Nets []uint
}

// Error implements the error interface.
func (e *UnusedNetError) Error() string {
	return e.Unwrap().Error()
}

// Unwrap returns the coded form of the error.
func (e *UnusedNetError) Unwrap() error {
	return New(ErrCodeUnusedNet, "%d net(s) produced but never consumed: %v", len(e.Nets), e.Nets)
}
