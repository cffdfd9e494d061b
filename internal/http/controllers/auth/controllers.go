// Package auth contains the HTTP controllers for password login, two-factor
// verification, token refresh, logout and password reset.
package auth

import (
	"net/http"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/http/helpers"
	svc "github.com/DogisRiki/KeirekiPro-sub004/internal/http/services/auth"
)

// Cookie names the browser session rides on.
const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"
)

// Controllers bundles the auth endpoints with their shared wiring.
type Controllers struct {
	Login     *svc.LoginService
	TwoFactor *svc.TwoFactorService
	Tokens    *svc.TokenService
	Reset     *svc.ResetService
	Users     repository.UserRepository

	Cookies    helpers.CookieSettings
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// issueSession mints both tokens for the user and sets the session cookies.
func (c *Controllers) issueSession(w http.ResponseWriter, userID string) error {
	access, err := c.Tokens.GenerateAccessToken(userID)
	if err != nil {
		return err
	}
	refresh, err := c.Tokens.GenerateRefreshToken(userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, helpers.BuildCookie(c.Cookies, AccessTokenCookie, access, c.AccessTTL))
	http.SetCookie(w, helpers.BuildCookie(c.Cookies, RefreshTokenCookie, refresh, c.RefreshTTL))
	return nil
}

func (c *Controllers) clearSession(w http.ResponseWriter) {
	http.SetCookie(w, helpers.BuildDeletionCookie(c.Cookies, AccessTokenCookie))
	http.SetCookie(w, helpers.BuildDeletionCookie(c.Cookies, RefreshTokenCookie))
}
