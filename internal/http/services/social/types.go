// Package social implements the external-provider login flow: building the
// authorization redirect, walking the callback through its failure ladder and
// resolving the external identity to a local user.
package social

import "errors"

// AuthorizationSession is the server-side state stored between the redirect
// to the provider and the callback. The CSRF state value is the storage key;
// the session never leaves the server.
type AuthorizationSession struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"codeVerifier"`
}

// FailureReason classifies why a callback did not produce a login. The set is
// closed; controllers switch over it exhaustively.
type FailureReason string

const (
	ReasonProviderError    FailureReason = "PROVIDER_ERROR_PARAMETER"
	ReasonMissingParameter FailureReason = "MISSING_REQUIRED_PARAMETER"
	ReasonInvalidState     FailureReason = "INVALID_OR_EXPIRED_STATE"
	ReasonExchangeFailed   FailureReason = "TOKEN_EXCHANGE_FAILED"
	ReasonUserinfoFailed   FailureReason = "USERINFO_FETCH_FAILED"
	ReasonLoginFailed      FailureReason = "LOGIN_FAILED"
)

// CallbackResult is the outcome of one callback request. Success carries the
// local user ID; failure carries the reason and an operator-facing detail
// that is logged but never shown to the browser.
type CallbackResult struct {
	Success bool
	UserID  string
	Reason  FailureReason
	Detail  string
}

func failure(reason FailureReason, detail string) *CallbackResult {
	return &CallbackResult{Reason: reason, Detail: detail}
}

// ErrUnknownProvider is returned by Initiate when the provider name is not
// registered.
var ErrUnknownProvider = errors.New("unknown provider")
