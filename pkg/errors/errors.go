// Package errors provides structured error types for figure orchestration.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and library surface
//   - Machine-readable error codes for programmatic handling
//   - Error messages that identify the offending figure id, so a broken
//     spec file can be fixed without re-running with extra diagnostics
//
// # Error Codes
//
// Each code corresponds to one failure class in the build pipeline:
//
//	SPEC_NOT_FOUND    spec file missing
//	PARSE_ERROR       malformed JSON
//	VALIDATION_ERROR  schema violation (carries figure id + field)
//	RESOLUTION_ERROR  unknown or unloadable renderer type
//	MISSING_ARTIFACT  renderer ran but expected file absent
//	CONCAT_ERROR      concatenation collaborator failure
//	EMPTY_OUTPUT      full build produced no pages
//	IO_ERROR          filesystem write failure
//
// # Usage
//
//	err := errors.New(errors.ErrCodeValidation, "2", "missing 'row'")
//	if errors.Is(err, errors.ErrCodeValidation) {
//	    // Handle schema violation
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for the build pipeline failure classes.
const (
	ErrCodeSpecNotFound    Code = "SPEC_NOT_FOUND"
	ErrCodeParse           Code = "PARSE_ERROR"
	ErrCodeValidation      Code = "VALIDATION_ERROR"
	ErrCodeResolution      Code = "RESOLUTION_ERROR"
	ErrCodeMissingArtifact Code = "MISSING_ARTIFACT"
	ErrCodeConcat          Code = "CONCAT_ERROR"
	ErrCodeEmptyOutput     Code = "EMPTY_OUTPUT"
	ErrCodeIO              Code = "IO_ERROR"
)

// Error is a structured error with a code, an optional figure id, and an
// optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Figure  string // Offending figure id, empty when none applies
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Figure != "" {
		msg = fmt.Sprintf("figure %q: %s", e.Figure, e.Message)
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

// New creates an Error scoped to the given figure id. Pass an empty id for
// errors that do not concern a single figure.
func New(code Code, figure, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Figure:  figure,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error wrapping an existing error.
func Wrap(code Code, figure string, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Figure:  figure,
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

// FigureID extracts the figure id from an error, if available.
func FigureID(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Figure
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Figure != "" {
			return fmt.Sprintf("figure %q: %s", e.Figure, e.Message)
		}
		return e.Message
	}
	return err.Error()
}
