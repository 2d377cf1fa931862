// Package errors provides standardized domain errors with codes for the Acervo API.
//
// Usage:
//
//	// In services - return typed errors
//	if available == 0 {
//	    return errors.OutOfStock("no copies available for loan")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrOutOfStock) {
//	    response.Conflict(w, err.Error(), logger)
//	    return
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeInvalidCode       Code = "INVALID_CODE"
	CodeDuplicateCode     Code = "DUPLICATE_CODE"
	CodeOutOfStock        Code = "OUT_OF_STOCK"
	CodeNegativeStock     Code = "NEGATIVE_STOCK"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeValidation        Code = "VALIDATION"
	CodeInternal          Code = "INTERNAL"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateCode, CodeOutOfStock, CodeInvalidTransition:
		return http.StatusConflict
	case CodeInvalidCode, CodeValidation:
		return http.StatusBadRequest
	default:
		// NegativeStock is an invariant violation, never a client mistake.
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInvalidCode       = &Error{Code: CodeInvalidCode, Message: "invalid catalog code"}
	ErrDuplicateCode     = &Error{Code: CodeDuplicateCode, Message: "catalog code already exists"}
	ErrOutOfStock        = &Error{Code: CodeOutOfStock, Message: "out of stock"}
	ErrNegativeStock     = &Error{Code: CodeNegativeStock, Message: "stock would become negative"}
	ErrInvalidTransition = &Error{Code: CodeInvalidTransition, Message: "invalid loan transition"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation error"}
	ErrInternal          = &Error{Code: CodeInternal, Message: "internal error"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// InvalidCode creates an invalid code error.
func InvalidCode(msg string) *Error {
	return &Error{Code: CodeInvalidCode, Message: msg}
}

// InvalidCodef creates an invalid code error with formatted message.
func InvalidCodef(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidCode, Message: fmt.Sprintf(format, args...)}
}

// DuplicateCode creates a duplicate code error.
func DuplicateCode(msg string) *Error {
	return &Error{Code: CodeDuplicateCode, Message: msg}
}

// DuplicateCodef creates a duplicate code error with formatted message.
func DuplicateCodef(format string, args ...any) *Error {
	return &Error{Code: CodeDuplicateCode, Message: fmt.Sprintf(format, args...)}
}

// OutOfStock creates an out of stock error.
func OutOfStock(msg string) *Error {
	return &Error{Code: CodeOutOfStock, Message: msg}
}

// OutOfStockf creates an out of stock error with formatted message.
func OutOfStockf(format string, args ...any) *Error {
	return &Error{Code: CodeOutOfStock, Message: fmt.Sprintf(format, args...)}
}

// NegativeStock creates a negative stock error.
func NegativeStock(msg string) *Error {
	return &Error{Code: CodeNegativeStock, Message: msg}
}

// InvalidTransition creates an invalid transition error.
func InvalidTransition(msg string) *Error {
	return &Error{Code: CodeInvalidTransition, Message: msg}
}

// InvalidTransitionf creates an invalid transition error with formatted message.
func InvalidTransitionf(format string, args ...any) *Error {
	return &Error{Code: CodeInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with an internal error code, preserving the original
// error for errors.Is/As checks. If err is already an *Error it is returned
// unchanged so codes survive layer boundaries.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return err
	}
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}
