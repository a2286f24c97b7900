// Package errors defines the error taxonomy returned by the service.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// ErrCodeUnauthenticated means no valid session was presented.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"

	// ErrCodeValidation means the request payload or parameters were invalid.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeNotFound means the requested resource yielded no results.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUpstream means the music platform returned a non-2xx response.
	// The upstream status code is carried on the error and propagated.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"

	// ErrCodeInvalidUpstream means the upstream response was missing a token
	// or could not be parsed.
	ErrCodeInvalidUpstream ErrorCode = "INVALID_UPSTREAM_RESPONSE"

	// ErrCodeInternal is everything else.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a structured error that can be rendered to clients.
type AppError struct {
	Code    ErrorCode
	Message string

	// Status is the upstream HTTP status to propagate. Only set for
	// ErrCodeUpstream; zero otherwise.
	Status int

	cause error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause attaches an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// HTTPStatus maps the error to the HTTP status code it should be served with.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUpstream:
		if e.Status >= 400 && e.Status < 600 {
			return e.Status
		}
		return http.StatusBadGateway
	case ErrCodeInvalidUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// AsAppError unwraps err into an *AppError if one is in its chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Common error constructors

func Unauthenticated(message string) *AppError {
	return New(ErrCodeUnauthenticated, message)
}

func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// Upstream wraps a non-2xx upstream response, preserving its status code.
func Upstream(status int, message string) *AppError {
	return &AppError{
		Code:    ErrCodeUpstream,
		Message: message,
		Status:  status,
	}
}

func InvalidUpstream(message string) *AppError {
	return New(ErrCodeInvalidUpstream, message)
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}
