package auth

import (
	"strings"
	"testing"
	"time"
)

func newTokenService(secret string, now func() time.Time) *TokenService {
	return NewTokenService(TokenDeps{
		Secret:     secret,
		Issuer:     "test",
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		Now:        now,
	})
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTokenService("secret-a", nil)

	tok, err := s.GenerateAccessToken("user-42")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	p, err := s.GetAuthentication(tok)
	if err != nil {
		t.Fatalf("GetAuthentication: %v", err)
	}
	if p.Subject != "user-42" {
		t.Fatalf("subject = %q, want user-42", p.Subject)
	}
}

func TestRefreshTokenCarriesSameSubject(t *testing.T) {
	t.Parallel()
	s := newTokenService("secret-a", nil)

	tok, err := s.GenerateRefreshToken("user-42")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	p, err := s.GetAuthentication(tok)
	if err != nil || p.Subject != "user-42" {
		t.Fatalf("GetAuthentication = (%+v, %v)", p, err)
	}
}

func TestWrongSecretRejected(t *testing.T) {
	t.Parallel()
	a := newTokenService("secret-a", nil)
	b := newTokenService("secret-b", nil)

	tok, err := a.GenerateAccessToken("user-42")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := b.GetAuthentication(tok); err != ErrTokenInvalid {
		t.Fatalf("cross-secret verification = %v, want ErrTokenInvalid", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Parallel()

	issued := time.Now().Add(-2 * time.Hour)
	issuer := newTokenService("secret-a", func() time.Time { return issued })
	tok, err := issuer.GenerateAccessToken("user-42")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	verifier := newTokenService("secret-a", nil)
	if _, err := verifier.GetAuthentication(tok); err != ErrTokenInvalid {
		t.Fatalf("expired token = %v, want ErrTokenInvalid", err)
	}
}

func TestGarbageTokenRejected(t *testing.T) {
	t.Parallel()
	s := newTokenService("secret-a", nil)

	for _, tok := range []string{"", "junk", "a.b.c", strings.Repeat("x", 500)} {
		if _, err := s.GetAuthentication(tok); err != ErrTokenInvalid {
			t.Errorf("GetAuthentication(%q) = %v, want ErrTokenInvalid", tok, err)
		}
	}
}

func TestGetExpiration(t *testing.T) {
	t.Parallel()

	issued := time.Now().Truncate(time.Second)
	s := newTokenService("secret-a", func() time.Time { return issued })

	tok, err := s.GenerateAccessToken("user-42")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	exp, err := s.GetExpiration(tok)
	if err != nil {
		t.Fatalf("GetExpiration: %v", err)
	}
	want := issued.Add(30 * time.Minute)
	if !exp.Equal(want) {
		t.Fatalf("expiration = %v, want %v", exp, want)
	}
}

func TestGetExpirationRejectsForgedToken(t *testing.T) {
	t.Parallel()
	a := newTokenService("secret-a", nil)
	b := newTokenService("secret-b", nil)

	tok, err := a.GenerateAccessToken("user-42")
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	// Expiry must not be readable without a valid signature.
	if _, err := b.GetExpiration(tok); err != ErrTokenInvalid {
		t.Fatalf("GetExpiration with wrong secret = %v, want ErrTokenInvalid", err)
	}
}
