package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/metrics"
)

// Principal is the authenticated identity carried by a verified token.
type Principal struct {
	Subject string
}

// TokenService issues and verifies the symmetric JWTs used for API sessions.
// Access and refresh tokens share the same signing key and claim set and
// differ only in lifetime.
type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// TokenDeps contains dependencies for TokenService.
type TokenDeps struct {
	Secret     string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	Now        func() time.Time // for tests; defaults to time.Now
}

// NewTokenService creates a TokenService. Panics on an empty secret because
// signing with an empty key is never intentional.
func NewTokenService(d TokenDeps) *TokenService {
	if d.Secret == "" {
		panic("auth: token secret must not be empty")
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	return &TokenService{
		secret:     []byte(d.Secret),
		issuer:     d.Issuer,
		accessTTL:  d.AccessTTL,
		refreshTTL: d.RefreshTTL,
		now:        now,
	}
}

// GenerateAccessToken issues a short-lived token with the user ID as subject.
func (s *TokenService) GenerateAccessToken(userID string) (string, error) {
	tok, err := s.sign(userID, s.accessTTL)
	if err == nil {
		metrics.TokensIssued.WithLabelValues("access").Inc()
	}
	return tok, err
}

// GenerateRefreshToken issues a long-lived token with the user ID as subject.
func (s *TokenService) GenerateRefreshToken(userID string) (string, error) {
	tok, err := s.sign(userID, s.refreshTTL)
	if err == nil {
		metrics.TokensIssued.WithLabelValues("refresh").Inc()
	}
	return tok, err
}

func (s *TokenService) sign(userID string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    s.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// GetAuthentication verifies the token and returns the principal. Every
// failure collapses into ErrTokenInvalid.
func (s *TokenService) GetAuthentication(tokenString string) (*Principal, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrTokenInvalid
	}
	return &Principal{Subject: claims.Subject}, nil
}

// VerifySubject is GetAuthentication reduced to the subject string. It
// satisfies the middleware verifier contract.
func (s *TokenService) VerifySubject(tokenString string) (string, error) {
	p, err := s.GetAuthentication(tokenString)
	if err != nil {
		return "", err
	}
	return p.Subject, nil
}

// GetExpiration returns the token's expiry. The signature is verified first:
// expiry must not be readable from forged tokens.
func (s *TokenService) GetExpiration(tokenString string) (time.Time, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return time.Time{}, ErrTokenInvalid
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrTokenInvalid
	}
	return claims.ExpiresAt.Time, nil
}

func (s *TokenService) parse(tokenString string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !t.Valid {
		return nil, fmt.Errorf("token not valid")
	}
	return claims, nil
}
