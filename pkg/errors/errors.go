// Package errors defines the application error taxonomy and its mapping
// to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the service distinguishes.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource already exists")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInternal     = errors.New("internal error")
)

// AppError is a structured application error carrying a stable machine
// code, a human-readable message, and an HTTP status.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// DuplicateEmail reports a registration conflict on an already-used email.
func DuplicateEmail(email string) *AppError {
	return &AppError{
		Code:    "EMAIL_IN_USE",
		Message: fmt.Sprintf("email %q is already in use", email),
		Status:  http.StatusConflict,
		Err:     ErrConflict,
	}
}

// InvalidCredentials reports a failed login. The message is identical for
// unknown email and wrong password so callers cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// InvalidRefreshToken reports a failed refresh. Expired, malformed,
// signature-invalid, and rotated-out tokens all collapse into this one
// externally visible error.
func InvalidRefreshToken() *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: "invalid refresh token",
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Unauthorized creates a 401 error with the given message.
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// Forbidden creates a 403 error with the given message.
func Forbidden(message string) *AppError {
	return &AppError{
		Code:    "FORBIDDEN",
		Message: message,
		Status:  http.StatusForbidden,
		Err:     ErrForbidden,
	}
}

// NotFound creates a 404 error for the named resource.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s with id %s not found", resource, id),
		Status:  http.StatusNotFound,
		Err:     ErrNotFound,
	}
}

// InvalidInput creates a 400 error with the given message.
func InvalidInput(message string) *AppError {
	return &AppError{
		Code:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Internal wraps an unexpected failure (store or crypto) as a 500 error.
// The underlying cause is kept for logs and never sent to the client.
func Internal(err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: "an internal error occurred",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus maps an error to its HTTP status code, defaulting to 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
