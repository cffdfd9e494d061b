// Package repository defines the persistence boundary consumed by the auth
// services. The auth core compiles and tests against fakes of these
// interfaces; the pg adapter provides the production implementation.
package repository

import (
	"context"
	"time"
)

// User represents a local account.
type User struct {
	ID               string
	Email            string
	Username         string
	PasswordHash     *string // nil for social-only accounts
	TwoFactorEnabled bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AuthProviderLink ties a local user to one external identity.
// (Provider, ProviderUserID) is unique across the system and a user holds at
// most one link per provider.
type AuthProviderLink struct {
	ID             string
	UserID         string
	Provider       string // "google", "github"
	ProviderUserID string
	CreatedAt      time.Time
}

// CreateUserInput contains the data to create a user.
type CreateUserInput struct {
	ID           string
	Email        string
	Username     string
	PasswordHash *string
}

// UpsertProviderLinkInput creates or updates the link for (UserID, Provider).
// An existing link for the same provider gets its ProviderUserID replaced
// rather than duplicated.
type UpsertProviderLinkInput struct {
	UserID         string
	Provider       string
	ProviderUserID string
}

// UserRepository defines the user persistence operations the auth core needs.
type UserRepository interface {
	// GetByID returns the user. ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail returns the user for a normalized (lowercase) email.
	// ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByProviderLink returns the user linked to the external identity.
	// ErrNotFound if no link exists.
	GetByProviderLink(ctx context.Context, provider, providerUserID string) (*User, error)

	// Create inserts a new user. ErrDuplicate on email collision.
	Create(ctx context.Context, in CreateUserInput) (*User, error)

	// UpsertProviderLink creates or updates the provider link. Idempotent on
	// (provider, providerUserID).
	UpsertProviderLink(ctx context.Context, in UpsertProviderLinkInput) (*AuthProviderLink, error)

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error
}
