// Package router assembles the chi route tree from the controllers.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/auth"
	healthctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/health"
	socialctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/social"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/middlewares"
)

// Deps collects everything the route tree mounts.
type Deps struct {
	Auth   *authctl.Controllers
	Social *socialctl.Controllers
	Health *healthctl.Controllers

	// Per-endpoint throttles; nil disables the one it guards.
	LoginLimiter  middlewares.Middleware
	TwoFALimiter  middlewares.Middleware
	ForgotLimiter middlewares.Middleware
}

// New builds the public route tree. The request-id, logging and recover
// middlewares wrap everything; rate limits attach per endpoint.
func New(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
	)

	r.Get("/healthz", d.Health.HandleLive)
	r.Get("/readyz", d.Health.HandleReady)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(use(d.LoginLimiter)).Post("/login", d.Auth.HandleLogin)
		r.With(use(d.TwoFALimiter)).Post("/2fa/verify", d.Auth.HandleTwoFactorVerify)
		r.Post("/refresh", d.Auth.HandleRefresh)
		r.Post("/logout", d.Auth.HandleLogout)
		r.With(middlewares.WithAuth(d.Auth.Tokens, authctl.AccessTokenCookie)).
			Get("/me", d.Auth.HandleMe)

		r.With(use(d.ForgotLimiter)).Post("/password/reset", d.Auth.HandleResetRequest)
		r.Post("/password/reset/confirm", d.Auth.HandleResetConfirm)

		r.Get("/oidc/{provider}", d.Social.HandleStart)
		r.Get("/oidc/{provider}/callback", d.Social.HandleCallback)
	})

	return r
}

// use adapts an optional middleware for chi; nil becomes a no-op.
func use(m middlewares.Middleware) func(http.Handler) http.Handler {
	if m == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return m
}
