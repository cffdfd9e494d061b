package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/ephemeral"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/metrics"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/token"
)

const twoFactorNamespace = "2fa"

// TwoFactorService issues and verifies the emailed numeric codes.
type TwoFactorService struct {
	codes  *ephemeral.Store[string]
	mailer Mailer
	digits int
	ttl    time.Duration
}

// TwoFactorDeps contains dependencies for TwoFactorService.
type TwoFactorDeps struct {
	Cache  cache.Client
	Mailer Mailer
	Digits int
	TTL    time.Duration
}

// NewTwoFactorService creates a TwoFactorService.
func NewTwoFactorService(d TwoFactorDeps) *TwoFactorService {
	digits := d.Digits
	if digits <= 0 {
		digits = 6
	}
	ttl := d.TTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TwoFactorService{
		codes:  ephemeral.NewStore[string](d.Cache, twoFactorNamespace),
		mailer: d.Mailer,
		digits: digits,
		ttl:    ttl,
	}
}

// Issue generates a fresh code for the user, stores it under the user ID
// (replacing any outstanding code) and emails it. The code is zero-padded to
// the configured width.
func (s *TwoFactorService) Issue(ctx context.Context, userID, email string) error {
	code, err := token.GenerateRandomNumber(s.digits)
	if err != nil {
		return fmt.Errorf("generate two-factor code: %w", err)
	}
	if err := s.codes.Store(ctx, userID, code, s.ttl); err != nil {
		return fmt.Errorf("store two-factor code: %w", err)
	}
	if err := s.mailer.SendTwoFactorCode(email, code); err != nil {
		return fmt.Errorf("send two-factor code: %w", err)
	}
	logger.From(ctx).Info("two-factor code issued", logger.UserID(userID))
	return nil
}

// Verify consumes the stored code and compares it with the submitted one.
// The consume happens before the comparison, so a wrong guess burns the code
// and the user has to log in again. Every failure is ErrCodeInvalid.
func (s *TwoFactorService) Verify(ctx context.Context, userID, submitted string) error {
	stored, ok, err := s.codes.Consume(ctx, userID)
	if err != nil {
		return fmt.Errorf("consume two-factor code: %w", err)
	}
	if !ok {
		metrics.TwoFactorVerifications.WithLabelValues("expired").Inc()
		return ErrCodeInvalid
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(submitted)) != 1 {
		metrics.TwoFactorVerifications.WithLabelValues("mismatch").Inc()
		return ErrCodeInvalid
	}
	metrics.TwoFactorVerifications.WithLabelValues("success").Inc()
	return nil
}
