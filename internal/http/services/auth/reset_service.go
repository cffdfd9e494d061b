package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/ephemeral"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/password"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/token"
)

const resetNamespace = "pwdreset"

// ResetService implements the forgot-password flow. The emailed token is
// random; only its SHA-256 digest is stored, keyed by digest, so a cache dump
// never yields usable links.
type ResetService struct {
	users  repository.UserRepository
	tokens *ephemeral.Store[string] // digest -> user ID
	mailer Mailer
	ttl    time.Duration
}

// ResetDeps contains dependencies for ResetService.
type ResetDeps struct {
	Users  repository.UserRepository
	Cache  cache.Client
	Mailer Mailer
	TTL    time.Duration
}

// NewResetService creates a ResetService.
func NewResetService(d ResetDeps) *ResetService {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResetService{
		users:  d.Users,
		tokens: ephemeral.NewStore[string](d.Cache, resetNamespace),
		mailer: d.Mailer,
		ttl:    ttl,
	}
}

// Request emails a reset link when the address belongs to an account. It
// reports success for unknown addresses too, so the endpoint can't be used to
// probe which emails are registered.
func (s *ResetService) Request(ctx context.Context, email string) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.reset"))

	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Info("reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("reset lookup: %w", err)
	}

	raw, err := token.GenerateRandomToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	digest := token.SHA256Base64URL(raw)
	if err := s.tokens.Store(ctx, digest, u.ID, s.ttl); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(u.Email, raw); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	log.Info("reset token issued", logger.UserID(u.ID))
	return nil
}

// Confirm consumes the token and replaces the password. The consume is
// atomic: two concurrent confirmations with the same token let exactly one
// through.
func (s *ResetService) Confirm(ctx context.Context, rawToken, newPassword string) error {
	if rawToken == "" || newPassword == "" {
		return ErrResetTokenInvalid
	}

	digest := token.SHA256Base64URL(rawToken)
	userID, ok, err := s.tokens.Consume(ctx, digest)
	if err != nil {
		return fmt.Errorf("consume reset token: %w", err)
	}
	if !ok {
		return ErrResetTokenInvalid
	}

	phc, err := password.Hash(password.Default, newPassword)
	if err != nil {
		return fmt.Errorf("hash new password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, userID, phc); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	logger.From(ctx).Info("password reset completed", logger.UserID(userID))
	return nil
}
