// Package ephemeral provides typed, TTL-expiring key/value stores on top of
// the shared cache client. Each store owns a key namespace so the three auth
// flows (authorization session, password-reset token, 2FA code) never collide
// even on a shared Redis.
//
// Consume is the single-flight primitive the flows depend on: an atomic
// get-and-delete, so concurrent replays of the same state/token/code resolve
// to exactly one winner.
package ephemeral

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
)

// Store is a namespaced TTL store for values of type V, JSON-encoded into the
// backing cache.
type Store[V any] struct {
	cache     cache.Client
	namespace string
}

// NewStore creates a store over the given cache with a key namespace.
// The namespace must be non-empty and unique per flow.
func NewStore[V any](c cache.Client, namespace string) *Store[V] {
	if namespace == "" {
		panic("ephemeral: empty namespace")
	}
	return &Store[V]{cache: c, namespace: namespace}
}

func (s *Store[V]) key(k string) string {
	return s.namespace + ":" + k
}

// Store upserts value under key with an absolute expiry of now + ttl.
// An existing entry under the same key is overwritten and its expiry reset.
func (s *Store[V]) Store(ctx context.Context, key string, value V, ttl time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("ephemeral: encode %s: %w", s.namespace, err)
	}
	if err := s.cache.Set(ctx, s.key(key), string(b), ttl); err != nil {
		return fmt.Errorf("ephemeral: store %s: %w", s.namespace, err)
	}
	return nil
}

// Find returns the value if present and not expired. The second return is
// false when the key is absent or expired; err is reserved for backend
// failures.
func (s *Store[V]) Find(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, err := s.cache.Get(ctx, s.key(key))
	if cache.IsNotFound(err) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("ephemeral: find %s: %w", s.namespace, err)
	}
	return s.decode(raw)
}

// Consume atomically reads and removes the value. At most one concurrent
// caller for the same key observes ok == true; all others get ok == false.
func (s *Store[V]) Consume(ctx context.Context, key string) (V, bool, error) {
	var zero V
	raw, err := s.cache.GetDel(ctx, s.key(key))
	if cache.IsNotFound(err) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("ephemeral: consume %s: %w", s.namespace, err)
	}
	return s.decode(raw)
}

// Remove deletes the key. Idempotent.
func (s *Store[V]) Remove(ctx context.Context, key string) error {
	if err := s.cache.Delete(ctx, s.key(key)); err != nil {
		return fmt.Errorf("ephemeral: remove %s: %w", s.namespace, err)
	}
	return nil
}

func (s *Store[V]) decode(raw string) (V, bool, error) {
	var v V
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		var zero V
		return zero, false, fmt.Errorf("ephemeral: decode %s: %w", s.namespace, err)
	}
	return v, true, nil
}
