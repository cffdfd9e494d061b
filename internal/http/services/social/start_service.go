package social

import (
	"context"
	"fmt"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/ephemeral"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/token"
)

const sessionNamespace = "authsession"

// StartService builds the provider redirect and parks the per-attempt
// session (CSRF state, PKCE verifier) server-side.
type StartService struct {
	providers *oidc.Registry
	sessions  *ephemeral.Store[AuthorizationSession]
	ttl       time.Duration
}

// StartDeps contains dependencies for StartService.
type StartDeps struct {
	Providers *oidc.Registry
	Cache     cache.Client
	TTL       time.Duration
}

// NewStartService creates a StartService.
func NewStartService(d StartDeps) *StartService {
	ttl := d.TTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &StartService{
		providers: d.Providers,
		sessions:  ephemeral.NewStore[AuthorizationSession](d.Cache, sessionNamespace),
		ttl:       ttl,
	}
}

// Initiate generates a state and PKCE verifier, stores the session keyed by
// state and returns the provider authorization URL to redirect the browser
// to. Each call produces an independent attempt; concurrent attempts from the
// same browser don't interfere.
func (s *StartService) Initiate(ctx context.Context, providerName string) (string, error) {
	p, err := s.providers.Get(providerName)
	if err != nil {
		return "", ErrUnknownProvider
	}

	state, err := token.GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	verifier, err := token.GenerateRandomToken()
	if err != nil {
		return "", fmt.Errorf("generate code verifier: %w", err)
	}

	session := AuthorizationSession{Provider: p.Name(), CodeVerifier: verifier}
	if err := s.sessions.Store(ctx, state, session, s.ttl); err != nil {
		return "", fmt.Errorf("store authorization session: %w", err)
	}

	challenge := token.GenerateCodeChallenge(verifier)
	url := p.AuthorizeURL(state, challenge)

	logger.From(ctx).Info("authorization flow started", logger.Provider(p.Name()))
	return url, nil
}
