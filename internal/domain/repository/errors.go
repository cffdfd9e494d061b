package repository

import "errors"

// Common repository errors.
var (
	// ErrNotFound means the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicate means a uniqueness constraint was violated
	// (email, or the (provider, provider_user_id) pair).
	ErrDuplicate = errors.New("repository: duplicate")
)
