// Package memstore is an in-memory UserRepository for development and tests.
// Semantics mirror the pg store: case-insensitive unique emails, unique
// (provider, provider user ID), one link per user per provider.
package memstore

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
)

// UserStore implements repository.UserRepository in memory.
type UserStore struct {
	mu    sync.RWMutex
	users map[string]*repository.User             // id -> user
	links map[string]*repository.AuthProviderLink // provider ":" providerUserID -> link
}

// NewUserStore creates an empty store.
func NewUserStore() *UserStore {
	return &UserStore{
		users: make(map[string]*repository.User),
		links: make(map[string]*repository.AuthProviderLink),
	}
}

func linkKey(provider, providerUserID string) string {
	return provider + ":" + providerUserID
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	email = strings.ToLower(email)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByProviderLink(ctx context.Context, provider, providerUserID string) (*repository.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[linkKey(provider, providerUserID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u, ok := s.users[l.UserID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email := strings.ToLower(in.Email)
	for _, u := range s.users {
		if strings.ToLower(u.Email) == email {
			return nil, repository.ErrDuplicate
		}
	}

	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now().UTC()
	u := &repository.User{
		ID:           id,
		Email:        email,
		Username:     in.Username,
		PasswordHash: in.PasswordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[id] = u
	cp := *u
	return &cp, nil
}

func (s *UserStore) UpsertProviderLink(ctx context.Context, in repository.UpsertProviderLinkInput) (*repository.AuthProviderLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[in.UserID]; !ok {
		return nil, repository.ErrNotFound
	}

	// Another user already owning this external identity is a conflict.
	if existing, ok := s.links[linkKey(in.Provider, in.ProviderUserID)]; ok && existing.UserID != in.UserID {
		return nil, repository.ErrDuplicate
	}

	// One link per provider per user: replace the user's previous link for
	// this provider.
	for k, l := range s.links {
		if l.UserID == in.UserID && l.Provider == in.Provider {
			delete(s.links, k)
		}
	}

	l := &repository.AuthProviderLink{
		ID:             uuid.NewString(),
		UserID:         in.UserID,
		Provider:       in.Provider,
		ProviderUserID: in.ProviderUserID,
		CreatedAt:      time.Now().UTC(),
	}
	s.links[linkKey(in.Provider, in.ProviderUserID)] = l
	cp := *l
	return &cp, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	h := passwordHash
	u.PasswordHash = &h
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *UserStore) Ping(ctx context.Context) error { return nil }

// SetTwoFactor toggles two-factor for a user. Dev/test helper.
func (s *UserStore) SetTwoFactor(userID string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		u.TwoFactorEnabled = enabled
	}
}
