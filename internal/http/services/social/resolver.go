package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
)

// IdentityResolver maps a verified external identity to a local user:
// an existing link wins, then an email match gets linked, then a fresh
// account is provisioned. Repeated logins with the same identity are
// idempotent and always land on the same user.
type IdentityResolver struct {
	users repository.UserRepository
}

// NewIdentityResolver creates an IdentityResolver.
func NewIdentityResolver(users repository.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve finds, links or creates the local user for the external identity.
func (r *IdentityResolver) Resolve(ctx context.Context, info *oidc.UserInfo) (*repository.User, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.resolver"), logger.Provider(info.Provider))

	if info.ProviderUserID == "" {
		return nil, fmt.Errorf("provider returned empty user id")
	}

	u, err := r.users.GetByProviderLink(ctx, info.Provider, info.ProviderUserID)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup by provider link: %w", err)
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if email != "" {
		u, err = r.users.GetByEmail(ctx, email)
		if err == nil {
			if _, err := r.users.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
				UserID:         u.ID,
				Provider:       info.Provider,
				ProviderUserID: info.ProviderUserID,
			}); err != nil {
				return nil, fmt.Errorf("link existing user: %w", err)
			}
			log.Info("linked external identity to existing user", logger.UserID(u.ID))
			return u, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup by email: %w", err)
		}
	}

	username := strings.TrimSpace(info.Username)
	if username == "" {
		if at := strings.IndexByte(email, '@'); at > 0 {
			username = email[:at]
		} else {
			username = info.Provider + "-" + info.ProviderUserID
		}
	}

	u, err = r.users.Create(ctx, repository.CreateUserInput{
		ID:       uuid.NewString(),
		Email:    email,
		Username: username,
		// no password hash: the account is social-only until a reset sets one
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if _, err := r.users.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
		UserID:         u.ID,
		Provider:       info.Provider,
		ProviderUserID: info.ProviderUserID,
	}); err != nil {
		return nil, fmt.Errorf("link new user: %w", err)
	}

	log.Info("provisioned new user from external identity", logger.UserID(u.ID))
	return u, nil
}
