// Package oidc defines the outbound gateway to external identity providers
// and a registry of configured providers.
//
// A Provider does three things: build the authorization URL (local), exchange
// an authorization code for tokens (remote), and fetch the normalized user
// profile (remote). Remote calls use a bounded-timeout HTTP client so a slow
// provider cannot hang a request thread.
package oidc

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Provider is the gateway contract for one external identity provider.
type Provider interface {
	// Name returns the canonical provider name ("google", "github").
	Name() string

	// AuthorizeURL builds the provider authorization URL embedding the CSRF
	// state and the S256 PKCE code challenge. No network I/O.
	AuthorizeURL(state, codeChallenge string) string

	// ExchangeToken trades an authorization code (plus the PKCE verifier)
	// for provider tokens.
	ExchangeToken(ctx context.Context, code, codeVerifier string) (*Token, error)

	// FetchUserInfo fetches the normalized profile for an access token.
	FetchUserInfo(ctx context.Context, accessToken string) (*UserInfo, error)
}

// Token is the provider token endpoint response. Transient, never persisted.
type Token struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	IDToken          string `json:"id_token,omitempty"`
	Error            string `json:"error,omitempty"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// HasError reports whether the provider signalled an error in-band.
func (t *Token) HasError() bool {
	return t == nil || t.Error != ""
}

// UserInfo is the normalized profile from any provider. ProviderUserID plus
// Provider form the external identity key.
type UserInfo struct {
	ProviderUserID string
	Email          string
	Username       string
	Provider       string
}

// Config holds the per-provider client credentials.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// Registry holds the configured providers by name.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register adds a provider. Called at startup for each configured provider.
func (r *Registry) Register(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Name())] = p
}

// Get returns the provider for a name (case-insensitive).
func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("oidc: provider not registered: %s", name)
	}
	return p, nil
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
