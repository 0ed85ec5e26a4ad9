// Package apperror defines the error taxonomy shared by all endpoints.
// Handlers translate an *AppError into the HTTP response envelope; codes
// are stable so clients can branch on them.
package apperror

import (
	"errors"
	"net/http"
)

// Code identifies an error category on the wire.
type Code string

const (
	CodeValidation   Code = "validation_error"
	CodeForbidden    Code = "forbidden"
	CodeNotFound     Code = "not_found"
	CodeSlotConflict Code = "slot_conflict"
	CodeInternal     Code = "internal_error"
)

// AppError is an error with a machine-checkable category and, optionally,
// structured details (the 409 body carries the colliding appointment's
// identifying fields here).
type AppError struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// HTTPStatus maps the category to its status code.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeSlotConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func Validation(msg string) *AppError {
	return &AppError{Code: CodeValidation, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Code: CodeForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Code: CodeNotFound, Message: msg}
}

// SlotConflict builds the 409 error; details identifies the occupant so
// the client can display who holds the slot.
func SlotConflict(msg string, details interface{}) *AppError {
	return &AppError{Code: CodeSlotConflict, Message: msg, Details: details}
}

// Internal wraps an unexpected failure without leaking it to the client.
func Internal(msg string, cause error) *AppError {
	return &AppError{Code: CodeInternal, Message: msg, cause: cause}
}

// From extracts an *AppError from err, wrapping unknown errors as internal.
func From(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("unexpected internal error", err)
}
