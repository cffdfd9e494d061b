// Package social contains the HTTP controllers for external-provider login:
// the authorization redirect and the provider callback.
package social

import (
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	authctl "github.com/DogisRiki/KeirekiPro-sub004/internal/http/controllers/auth"
	httperrors "github.com/DogisRiki/KeirekiPro-sub004/internal/http/errors"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	authsvc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/auth"
	svc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/social"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/observability/logger"
)

// Controllers bundles the OIDC endpoints.
type Controllers struct {
	Start    *svc.StartService
	Callback *svc.CallbackService
	Tokens   *authsvc.TokenService

	Cookies    helpers.CookieSettings
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// FrontendURL is where the browser lands after the callback.
	FrontendURL string
}

// HandleStart handles GET /api/auth/oidc/{provider}. It 302-redirects the
// browser to the provider's authorization endpoint.
func (c *Controllers) HandleStart(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	redirect, err := c.Start.Initiate(r.Context(), provider)
	if err != nil {
		if err == svc.ErrUnknownProvider {
			httperrors.WriteError(w, r, httperrors.ErrUnknownProvider)
			return
		}
		httperrors.WriteError(w, r, err)
		return
	}

	http.Redirect(w, r, redirect, http.StatusFound)
}

// HandleCallback handles GET /api/auth/oidc/{provider}/callback. On success
// it sets the session cookies and sends the browser to the frontend; on any
// flow failure it redirects to the login page with a stable error code. The
// failure detail stays in the logs.
func (c *Controllers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("social.callback"))

	q := r.URL.Query()
	req := svc.CallbackRequest{
		Provider:         chi.URLParam(r, "provider"),
		State:            q.Get("state"),
		Code:             q.Get("code"),
		ErrorParam:       q.Get("error"),
		ErrorDescription: q.Get("error_description"),
	}

	result, err := c.Callback.Complete(ctx, req)
	if err != nil {
		log.Error("callback processing failed", logger.Err(err))
		c.redirectFailure(w, r, string(svc.ReasonLoginFailed))
		return
	}
	if !result.Success {
		c.redirectFailure(w, r, string(result.Reason))
		return
	}

	access, err := c.Tokens.GenerateAccessToken(result.UserID)
	if err != nil {
		log.Error("access token issue failed", logger.Err(err))
		c.redirectFailure(w, r, string(svc.ReasonLoginFailed))
		return
	}
	refresh, err := c.Tokens.GenerateRefreshToken(result.UserID)
	if err != nil {
		log.Error("refresh token issue failed", logger.Err(err))
		c.redirectFailure(w, r, string(svc.ReasonLoginFailed))
		return
	}

	http.SetCookie(w, helpers.BuildCookie(c.Cookies, authctl.AccessTokenCookie, access, c.AccessTTL))
	http.SetCookie(w, helpers.BuildCookie(c.Cookies, authctl.RefreshTokenCookie, refresh, c.RefreshTTL))
	http.Redirect(w, r, c.FrontendURL+"/", http.StatusFound)
}

func (c *Controllers) redirectFailure(w http.ResponseWriter, r *http.Request, reason string) {
	u := c.FrontendURL + "/login?error=" + url.QueryEscape(reason)
	http.Redirect(w, r, u, http.StatusFound)
}
