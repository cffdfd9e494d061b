// Package helpers holds small request/response utilities shared by the
// controllers.
package helpers

import (
	"net/http"
	"strings"
	"time"
)

// CookieSettings captures the environment-dependent cookie attributes.
type CookieSettings struct {
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// BuildCookie creates an HttpOnly cookie scoped to the whole site.
func BuildCookie(s CookieSettings, name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   s.Domain,
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.Secure,
		SameSite: s.SameSite,
	}
}

// BuildDeletionCookie creates a cookie that instructs the browser to drop the
// named cookie immediately.
func BuildDeletionCookie(s CookieSettings, name string) *http.Cookie {
	c := BuildCookie(s, name, "", 0)
	c.MaxAge = -1
	c.Expires = time.Unix(0, 0)
	return c
}

// ParseSameSite maps a config string to the http constant, defaulting to Lax.
func ParseSameSite(v string) http.SameSite {
	switch strings.ToLower(v) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
