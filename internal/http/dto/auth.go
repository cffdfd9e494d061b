// Package dto defines the request and response bodies of the public API.
package dto

// LoginRequest is the email/password login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned when login succeeds without a second factor.
type LoginResponse struct {
	UserID            string `json:"userId"`
	TwoFactorRequired bool   `json:"twoFactorRequired"`
}

// TwoFactorVerifyRequest carries the emailed numeric code.
type TwoFactorVerifyRequest struct {
	UserID string `json:"userId"`
	Code   string `json:"code"`
}

// PasswordResetRequest asks for a reset link by email.
type PasswordResetRequest struct {
	Email string `json:"email"`
}

// PasswordResetConfirm sets a new password using an emailed token.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse is a generic acknowledgment body.
type MessageResponse struct {
	Message string `json:"message"`
}
