// Package errors defines the API error model. Services return sentinel
// errors; controllers translate them into AppError values which render as a
// stable JSON body with a machine-readable code.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError is the error shape every handler ultimately responds with.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// WithDetail returns a copy carrying a human-readable detail string.
func (e *AppError) WithDetail(detail string) *AppError {
	c := *e
	c.Detail = detail
	return &c
}

// WithCause returns a copy wrapping the underlying error. The cause is logged
// but never serialized to the client.
func (e *AppError) WithCause(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

func New(code, message string, status int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status}
}

var (
	ErrBadRequest = New("BAD_REQUEST", "The request is malformed.", http.StatusBadRequest)
	ErrValidation = New("VALIDATION_FAILED", "One or more fields are invalid.", http.StatusUnprocessableEntity)

	ErrInvalidCredentials = New("INVALID_CREDENTIALS", "Email address or password is incorrect.", http.StatusUnauthorized)
	ErrTokenInvalid       = New("TOKEN_INVALID", "The token is invalid or has expired.", http.StatusUnauthorized)
	ErrUnauthorized       = New("UNAUTHORIZED", "Authentication is required.", http.StatusUnauthorized)

	ErrTwoFactorRequired = New("TWO_FACTOR_REQUIRED", "A verification code has been sent.", http.StatusAccepted)
	ErrTwoFactorInvalid  = New("TWO_FACTOR_INVALID", "The verification code is invalid or has expired.", http.StatusUnauthorized)

	ErrResetTokenInvalid = New("RESET_TOKEN_INVALID", "The password reset link is invalid or has expired.", http.StatusBadRequest)

	ErrUnknownProvider = New("UNKNOWN_PROVIDER", "The requested identity provider is not supported.", http.StatusNotFound)
	ErrOidcLoginFailed = New("OIDC_LOGIN_FAILED", "External login could not be completed.", http.StatusUnauthorized)

	ErrRateLimited = New("RATE_LIMITED", "Too many requests. Try again later.", http.StatusTooManyRequests)
	ErrNotFound    = New("NOT_FOUND", "The requested resource was not found.", http.StatusNotFound)
	ErrInternal    = New("INTERNAL_ERROR", "An unexpected error occurred.", http.StatusInternalServerError)
)

// FromError normalizes an arbitrary error into an AppError. Unknown errors
// become ErrInternal with the original kept as the cause.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	var app *AppError
	if errors.As(err, &app) {
		return app
	}
	return ErrInternal.WithCause(err)
}
