// Package token holds the low-level security primitives shared by the auth
// flows: opaque random tokens (PKCE code_verifier, CSRF state, password-reset
// tokens), the RFC 7636 S256 code challenge, and fixed-width numeric codes
// for two-factor login.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"math/big"
)

// opaqueTokenBytes is the entropy of an opaque token. 32 bytes encode to
// exactly 43 base64url characters without padding.
const opaqueTokenBytes = 32

// GenerateRandomToken returns a 43-character base64url random token from the
// CSPRNG. Used for PKCE code_verifier, callback state and reset tokens.
func GenerateRandomToken() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("token: csprng read: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateCodeChallenge derives the S256 code challenge for a code verifier:
// base64url(sha256(verifier)) without padding (RFC 7636).
func GenerateCodeChallenge(codeVerifier string) string {
	sum := sha256.Sum256([]byte(codeVerifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// GenerateRandomNumber returns a zero-padded numeric string of exactly
// `digits` characters, sampled uniformly from [0, 10^digits) with the CSPRNG.
// digits < 1 is a caller bug and fails fast.
func GenerateRandomNumber(digits int) (string, error) {
	if digits < 1 {
		return "", fmt.Errorf("token: digits must be >= 1, got %d", digits)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("token: csprng read: %w", err)
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

// SHA256Base64URL returns sha256(input) base64url encoded without padding.
// Used to store only the hash of reset tokens server-side.
func SHA256Base64URL(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
