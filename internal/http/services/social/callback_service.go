package social

import (
	"context"
	"fmt"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/ephemeral"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/metrics"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
)

// CallbackRequest carries the provider redirect's query parameters.
type CallbackRequest struct {
	Provider         string
	State            string
	Code             string
	ErrorParam       string
	ErrorDescription string
}

// CallbackService walks a provider callback through the full ladder:
// provider error parameter, parameter presence, session consumption, code
// exchange, userinfo fetch, identity resolution. Each rung maps to exactly
// one FailureReason.
type CallbackService struct {
	providers *oidc.Registry
	sessions  *ephemeral.Store[AuthorizationSession]
	resolver  *IdentityResolver
}

// CallbackDeps contains dependencies for CallbackService.
type CallbackDeps struct {
	Providers *oidc.Registry
	Cache     cache.Client
	Resolver  *IdentityResolver
}

// NewCallbackService creates a CallbackService.
func NewCallbackService(d CallbackDeps) *CallbackService {
	return &CallbackService{
		providers: d.Providers,
		sessions:  ephemeral.NewStore[AuthorizationSession](d.Cache, sessionNamespace),
		resolver:  d.Resolver,
	}
}

// Complete processes one callback. It returns an error only for internal
// faults (cache or database unavailable); every flow-level failure comes back
// as a CallbackResult with Success=false.
//
// The session is consumed before any outbound call, so a state value is
// spendable exactly once even under concurrent replay.
func (s *CallbackService) Complete(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("social.callback"), logger.Provider(req.Provider))

	res, err := s.complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if res.Success {
		metrics.OidcCallbacks.WithLabelValues(req.Provider, "success").Inc()
		log.Info("callback succeeded", logger.UserID(res.UserID))
	} else {
		metrics.OidcCallbacks.WithLabelValues(req.Provider, string(res.Reason)).Inc()
		log.Warn("callback rejected",
			logger.Reason(string(res.Reason)),
			logger.String("detail", res.Detail),
		)
	}
	return res, nil
}

func (s *CallbackService) complete(ctx context.Context, req CallbackRequest) (*CallbackResult, error) {
	// The provider reporting an error short-circuits everything, including
	// parameter checks: there is nothing to exchange.
	if req.ErrorParam != "" {
		detail := req.ErrorParam
		if req.ErrorDescription != "" {
			detail = fmt.Sprintf("%s: %s", req.ErrorParam, req.ErrorDescription)
		}
		return failure(ReasonProviderError, detail), nil
	}

	if req.State == "" || req.Code == "" {
		return failure(ReasonMissingParameter, "state or code missing"), nil
	}

	session, ok, err := s.sessions.Consume(ctx, req.State)
	if err != nil {
		return nil, fmt.Errorf("consume authorization session: %w", err)
	}
	if !ok || session.Provider != req.Provider {
		return failure(ReasonInvalidState, "no live session for state"), nil
	}

	p, err := s.providers.Get(session.Provider)
	if err != nil {
		return failure(ReasonInvalidState, "session references unregistered provider"), nil
	}

	tok, err := p.ExchangeToken(ctx, req.Code, session.CodeVerifier)
	if err != nil {
		return failure(ReasonExchangeFailed, err.Error()), nil
	}
	if tok.HasError() {
		return failure(ReasonExchangeFailed, tok.Error), nil
	}

	info, err := p.FetchUserInfo(ctx, tok.AccessToken)
	if err != nil {
		return failure(ReasonUserinfoFailed, err.Error()), nil
	}

	user, err := s.resolver.Resolve(ctx, info)
	if err != nil {
		return failure(ReasonLoginFailed, err.Error()), nil
	}

	return &CallbackResult{Success: true, UserID: user.ID}, nil
}
