// Package pg implements the repository interfaces on PostgreSQL via pgx.
package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
)

// UserStore implements repository.UserRepository on a pgx pool.
type UserStore struct {
	pool *pgxpool.Pool
}

// NewUserStore connects a pool and verifies it.
func NewUserStore(ctx context.Context, dsn string) (*UserStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pg: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}
	return &UserStore{pool: pool}, nil
}

// Close releases the pool.
func (s *UserStore) Close() { s.pool.Close() }

// Ping verifies the connection.
func (s *UserStore) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

const userColumns = `id, email, username, password_hash, two_factor_enabled, created_at, updated_at`

func scanUser(row pgx.Row) (*repository.User, error) {
	var u repository.User
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.TwoFactorEnabled, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(s.pool.QueryRow(ctx, query, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*repository.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(s.pool.QueryRow(ctx, query, email))
}

func (s *UserStore) GetByProviderLink(ctx context.Context, provider, providerUserID string) (*repository.User, error) {
	const query = `
		SELECT u.id, u.email, u.username, u.password_hash, u.two_factor_enabled, u.created_at, u.updated_at
		FROM users u
		JOIN auth_provider_links l ON l.user_id = u.id
		WHERE l.provider = $1 AND l.provider_user_id = $2
	`
	return scanUser(s.pool.QueryRow(ctx, query, provider, providerUserID))
}

func (s *UserStore) Create(ctx context.Context, in repository.CreateUserInput) (*repository.User, error) {
	id := in.ID
	if id == "" {
		id = uuid.NewString()
	}
	const query = `
		INSERT INTO users (id, email, username, password_hash, two_factor_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, FALSE, NOW(), NOW())
		RETURNING ` + userColumns
	u, err := scanUser(s.pool.QueryRow(ctx, query, id, in.Email, in.Username, in.PasswordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return u, nil
}

// UpsertProviderLink keys on (user_id, provider): re-linking the same
// provider replaces provider_user_id instead of adding a second row.
func (s *UserStore) UpsertProviderLink(ctx context.Context, in repository.UpsertProviderLinkInput) (*repository.AuthProviderLink, error) {
	const query = `
		INSERT INTO auth_provider_links (id, user_id, provider, provider_user_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, provider)
		DO UPDATE SET provider_user_id = EXCLUDED.provider_user_id
		RETURNING id, user_id, provider, provider_user_id, created_at
	`
	var l repository.AuthProviderLink
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), in.UserID, in.Provider, in.ProviderUserID).Scan(
		&l.ID, &l.UserID, &l.Provider, &l.ProviderUserID, &l.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// (provider, provider_user_id) already linked to another user
			return nil, repository.ErrDuplicate
		}
		return nil, err
	}
	return &l, nil
}

func (s *UserStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}
