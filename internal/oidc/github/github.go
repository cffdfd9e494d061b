// Package github implements the GitHub provider. Unlike Google OIDC, GitHub
// speaks plain OAuth 2.0 without ID tokens, so user information comes from a
// separate API call, with a fallback to /user/emails for accounts that keep
// their email private. GitHub accepts PKCE parameters on both legs.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/oidc"
)

const (
	// ProviderName is the canonical name used in routes and provider links.
	ProviderName = "github"

	authEndpoint  = "https://github.com/login/oauth/authorize"
	tokenEndpoint = "https://github.com/login/oauth/access_token"
	userEndpoint  = "https://api.github.com/user"
	emailEndpoint = "https://api.github.com/user/emails"
)

// Client is the GitHub OAuth 2.0 client.
type Client struct {
	clientID     string
	clientSecret string
	redirectURL  string
	scopes       []string

	http *http.Client
}

// New creates a GitHub client. Remote calls time out after 10s.
func New(cfg oidc.Config) *Client {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"user:email", "read:user"}
	}
	return &Client{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		redirectURL:  cfg.RedirectURL,
		scopes:       scopes,
		http:         &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns "github".
func (g *Client) Name() string { return ProviderName }

// AuthorizeURL builds the GitHub authorization URL.
func (g *Client) AuthorizeURL(state, codeChallenge string) string {
	u, _ := url.Parse(authEndpoint)
	q := u.Query()
	q.Set("client_id", g.clientID)
	q.Set("redirect_uri", g.redirectURL)
	q.Set("scope", strings.Join(g.scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	u.RawQuery = q.Encode()
	return u.String()
}

// ExchangeToken exchanges the authorization code for an access token.
func (g *Client) ExchangeToken(ctx context.Context, code, codeVerifier string) (*oidc.Token, error) {
	form := url.Values{}
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("code", code)
	form.Set("redirect_uri", g.redirectURL)
	form.Set("code_verifier", codeVerifier)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenEndpoint, strings.NewReader(form.Encode()))
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
		return nil, fmt.Errorf("github: decode token response: %w", err)
	}
	return &tr, nil
}

type userResponse struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type emailEntry struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// FetchUserInfo fetches the user profile, resolving the email through
// /user/emails when the profile email is private.
func (g *Client) FetchUserInfo(ctx context.Context, accessToken string) (*oidc.UserInfo, error) {
	var user userResponse
	if err := g.getJSON(ctx, userEndpoint, accessToken, &user); err != nil {
		return nil, err
	}
	if user.ID == 0 {
		return nil, fmt.Errorf("github: user response missing id")
	}

	email := user.Email
	if email == "" {
		e, err := g.primaryEmail(ctx, accessToken)
		if err != nil {
			return nil, err
		}
		email = e
	}

	username := user.Name
	if username == "" {
		username = user.Login
	}
	return &oidc.UserInfo{
		ProviderUserID: strconv.FormatInt(user.ID, 10),
		Email:          strings.ToLower(email),
		Username:       username,
		Provider:       ProviderName,
	}, nil
}

// primaryEmail returns the primary verified email, falling back to any
// verified one, then to the first listed.
func (g *Client) primaryEmail(ctx context.Context, accessToken string) (string, error) {
	var emails []emailEntry
	if err := g.getJSON(ctx, emailEndpoint, accessToken, &emails); err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			return e.Email, nil
		}
	}
	for _, e := range emails {
		if e.Verified {
			return e.Email, nil
		}
	}
	if len(emails) > 0 {
		return emails[0].Email, nil
	}
	return "", fmt.Errorf("github: no email found")
}

func (g *Client) getJSON(ctx context.Context, endpoint, accessToken string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github: api http %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("github: decode response: %w", err)
	}
	return nil
}
