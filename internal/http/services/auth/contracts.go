// Package auth implements the email/password login, token, two-factor and
// password-reset services behind the auth controllers.
package auth

import "errors"

// Sentinel errors returned by the services in this package. Controllers map
// them to API error codes.
var (
	// ErrInvalidCredentials covers both unknown email and wrong password so
	// responses don't leak which accounts exist.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTokenInvalid is the single failure mode for token verification:
	// bad signature, expired, malformed, wrong type.
	ErrTokenInvalid = errors.New("token invalid")

	// ErrCodeInvalid is the single failure mode for 2FA verification:
	// unknown user, expired code, mismatch.
	ErrCodeInvalid = errors.New("two-factor code invalid")

	// ErrResetTokenInvalid is the single failure mode for password reset
	// confirmation.
	ErrResetTokenInvalid = errors.New("reset token invalid")
)

// Mailer is the slice of the email dispatcher the auth services need.
type Mailer interface {
	SendTwoFactorCode(to, code string) error
	SendPasswordReset(to, token string) error
}
