package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/metrics"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/password"
)

// LoginResult tells the controller whether tokens may be issued now or a
// second factor stands in the way.
type LoginResult struct {
	UserID            string
	TwoFactorRequired bool
}

// LoginService authenticates email/password credentials.
type LoginService struct {
	users     repository.UserRepository
	twoFactor *TwoFactorService
}

// LoginDeps contains dependencies for LoginService.
type LoginDeps struct {
	Users     repository.UserRepository
	TwoFactor *TwoFactorService
}

// NewLoginService creates a LoginService.
func NewLoginService(d LoginDeps) *LoginService {
	return &LoginService{users: d.Users, twoFactor: d.TwoFactor}
}

// Login checks the credentials. When the account has two-factor enabled a
// code is dispatched and the caller must complete verification before any
// token is issued. Unknown email, social-only account and wrong password all
// return ErrInvalidCredentials.
func (s *LoginService) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("auth.login"))

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || plainPassword == "" {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.LoginAttempts.WithLabelValues("invalid").Inc()
			return nil, ErrInvalidCredentials
		}
		log.Error("user lookup failed", logger.Err(err))
		return nil, err
	}

	if u.PasswordHash == nil || !password.Verify(plainPassword, *u.PasswordHash) {
		metrics.LoginAttempts.WithLabelValues("invalid").Inc()
		return nil, ErrInvalidCredentials
	}

	if u.TwoFactorEnabled {
		if err := s.twoFactor.Issue(ctx, u.ID, u.Email); err != nil {
			log.Error("two-factor issue failed", logger.UserID(u.ID), logger.Err(err))
			return nil, err
		}
		metrics.LoginAttempts.WithLabelValues("two_factor").Inc()
		return &LoginResult{UserID: u.ID, TwoFactorRequired: true}, nil
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	log.Info("login succeeded", logger.UserID(u.ID))
	return &LoginResult{UserID: u.ID}, nil
}
