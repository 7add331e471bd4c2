package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists is returned when registering with a taken email.
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials is returned when login fails. The message is
// deliberately generic so callers cannot probe which emails exist.
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrPasswordMismatch is returned when the current password check fails
// during a password change.
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrUserNotFound is returned when a referenced user does not exist.
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrNoResume is returned when analysis is requested before any resume
// has been uploaded.
type ErrNoResume struct {
	UserID uuid.UUID
}

func (e *ErrNoResume) Error() string {
	return "no resume on file"
}

// ErrQuotaExceeded is returned when the user has used up the daily
// analysis allowance.
type ErrQuotaExceeded struct {
	Limit int
}

func (e *ErrQuotaExceeded) Error() string {
	return fmt.Sprintf("daily analysis limit of %d reached", e.Limit)
}

// ErrValidation wraps request validation failures.
type ErrValidation struct {
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// HTTPStatus maps a service error to the HTTP status code it should
// produce. Unknown errors map to 500.
func HTTPStatus(err error) int {
	var emailExists *ErrEmailAlreadyExists
	var invalidCreds *ErrInvalidCredentials
	var passwordMismatch *ErrPasswordMismatch
	var userNotFound *ErrUserNotFound
	var noResume *ErrNoResume
	var quotaExceeded *ErrQuotaExceeded
	var validation *ErrValidation

	switch {
	case errors.As(err, &emailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds), errors.As(err, &passwordMismatch):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &noResume):
		return http.StatusNotFound
	case errors.As(err, &quotaExceeded):
		return http.StatusTooManyRequests
	case errors.As(err, &validation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
