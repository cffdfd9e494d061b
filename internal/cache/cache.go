// Package cache provides the shared key/value cache abstraction with
// multi-backend support.
//
// Backends:
//   - Memory (in-process, for development/testing)
//   - Redis (distributed, for production; required when running more than
//     one instance, since the auth flows rely on GetDel being atomic across
//     the whole deployment)
package cache

import (
	"context"
	"time"
)

// Client defines the cache operations.
type Client interface {
	// Get returns a value. Returns ErrNotFound if absent or expired.
	Get(ctx context.Context, key string) (string, error)

	// Set upserts a value with a TTL. ttl == 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// GetDel atomically reads and removes a value. Returns ErrNotFound if
	// absent or expired. Under concurrent calls for the same key at most one
	// caller observes the value; the backend enforces the atomicity (Redis
	// GETDEL, or a store-level lock for the memory backend).
	GetDel(ctx context.Context, key string) (string, error)

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend connection.
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port (redis)
	Password string
	DB       int
	Prefix   string // prefix applied to every key
}

// ErrNotFound is returned when a key is absent or expired.
var ErrNotFound = errNotFound{}

type errNotFound struct{}

func (errNotFound) Error() string { return "cache: key not found" }

// IsNotFound reports whether err means the key does not exist.
func IsNotFound(err error) bool {
	_, ok := err.(errNotFound)
	return ok
}

// New creates a cache client for the configured driver.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}
