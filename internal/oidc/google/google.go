// Package google implements the Google OIDC provider using the
// authorization-code flow with PKCE (S256).
package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
)

const (
	// ProviderName is the canonical name used in routes and provider links.
	ProviderName = "google"

	discoveryURL = "https://accounts.google.com/.well-known/openid-configuration"

	// Fallback endpoints if discovery is unavailable at first use.
	defaultAuthEndpoint     = "https://accounts.google.com/o/oauth2/v2/auth"
	defaultTokenEndpoint    = "https://oauth2.googleapis.com/token"
	defaultUserinfoEndpoint = "https://openidconnect.googleapis.com/v1/userinfo"
)

type discoveryDoc struct {
	Issuer           string `json:"issuer"`
	AuthEndpoint     string `json:"authorization_endpoint"`
	TokenEndpoint    string `json:"token_endpoint"`
	UserinfoEndpoint string `json:"userinfo_endpoint"`
}

// Client is the Google OIDC client.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string

	http *http.Client

	mu    sync.RWMutex
	disc  *discoveryDoc
	discU time.Time
}

// New creates a Google OIDC client. Remote calls time out after 10s.
func New(cfg oidc.Config) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email", "profile"}
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		scopes:       scopes,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns "google".
func (g *Client) Name() string { return ProviderName }

func (g *Client) discovery(ctx context.Context) *discoveryDoc {
	g.mu.RLock()
	disc := g.disc
	stale := time.Since(g.discU) > 24*time.Hour
	g.mu.RUnlock()
	if disc != nil && !stale {
		return disc
	}

	fallback := &discoveryDoc{
		AuthEndpoint:     defaultAuthEndpoint,
		TokenEndpoint:    defaultTokenEndpoint,
		UserinfoEndpoint: defaultUserinfoEndpoint,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return fallback
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()
	var dd discoveryDoc
	if err := json.NewDecoder(resp.Body).Decode(&dd); err != nil || dd.TokenEndpoint == "" {
		return fallback
	}

	g.mu.Lock()
	g.disc = &dd
	g.discU = time.Now()
	g.mu.Unlock()
	return &dd
}

// AuthorizeURL builds the Google authorization URL with state and the S256
// code challenge.
func (g *Client) AuthorizeURL(state, codeChallenge string) string {
	disc := g.discovery(context.Background())
	u, err := url.Parse(disc.AuthEndpoint)
	if err != nil {
		u, _ = url.Parse(defaultAuthEndpoint)
	}
	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", g.clientID)
	q.Set("redirect_uri", g.redirectURL)
	q.Set("scope", strings.Join(g.scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	u.RawQuery = q.Encode()
	return u.String()
}

// ExchangeToken trades the authorization code for tokens, sending the PKCE
// code verifier.
func (g *Client) ExchangeToken(ctx context.Context, code, codeVerifier string) (*oidc.Token, error) {
	disc := g.discovery(ctx)

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("redirect_uri", g.redirectURL)
	form.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, disc.TokenEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var tr oidc.Token
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, fmt.Errorf("google: decode token response: %w", err)
	}
	if resp.StatusCode/100 != 2 && tr.Error == "" {
		return nil, fmt.Errorf("google: token endpoint http %d", resp.StatusCode)
	}
	return &tr, nil
}

type userinfoResponse struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// FetchUserInfo calls the OIDC userinfo endpoint.
func (g *Client) FetchUserInfo(ctx context.Context, accessToken string) (*oidc.UserInfo, error) {
	disc := g.discovery(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, disc.UserinfoEndpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google: userinfo http %d", resp.StatusCode)
	}
	var ui userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&ui); err != nil {
		return nil, fmt.Errorf("google: decode userinfo: %w", err)
	}
	if ui.Sub == "" {
		return nil, fmt.Errorf("google: userinfo missing sub")
	}

	username := ui.Name
	if username == "" {
		username = localPart(ui.Email)
	}
	return &oidc.UserInfo{
		ProviderUserID: ui.Sub,
		Email:          strings.ToLower(ui.Email),
		Username:       username,
		Provider:       ProviderName,
	}, nil
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
