package memstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
)

func TestCreateAndGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	u, err := s.Create(ctx, repository.CreateUserInput{Email: "A@Example.com", Username: "a"})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "a@example.com", u.Email)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, u.ID, byID.ID)

	byEmail, err := s.GetByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	require.Equal(t, u.ID, byEmail.ID)
}

func TestCreateDuplicateEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	_, err := s.Create(ctx, repository.CreateUserInput{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)

	_, err = s.Create(ctx, repository.CreateUserInput{Email: "A@EXAMPLE.COM", Username: "b"})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	_, err := s.GetByID(ctx, "nope")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetByEmail(ctx, "nope@example.com")
	require.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetByProviderLink(ctx, "google", "g-1")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpsertProviderLink(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	u, err := s.Create(ctx, repository.CreateUserInput{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)

	_, err = s.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
		UserID: u.ID, Provider: "google", ProviderUserID: "g-1",
	})
	require.NoError(t, err)

	got, err := s.GetByProviderLink(ctx, "google", "g-1")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	// Re-linking the same provider replaces the previous external ID.
	_, err = s.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
		UserID: u.ID, Provider: "google", ProviderUserID: "g-2",
	})
	require.NoError(t, err)

	_, err = s.GetByProviderLink(ctx, "google", "g-1")
	require.ErrorIs(t, err, repository.ErrNotFound)
	got, err = s.GetByProviderLink(ctx, "google", "g-2")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)
}

func TestUpsertProviderLinkConflict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	a, err := s.Create(ctx, repository.CreateUserInput{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)
	b, err := s.Create(ctx, repository.CreateUserInput{Email: "b@example.com", Username: "b"})
	require.NoError(t, err)

	_, err = s.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
		UserID: a.ID, Provider: "google", ProviderUserID: "g-1",
	})
	require.NoError(t, err)

	// The same external identity cannot be claimed by a second account.
	_, err = s.UpsertProviderLink(ctx, repository.UpsertProviderLinkInput{
		UserID: b.ID, Provider: "google", ProviderUserID: "g-1",
	})
	require.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := NewUserStore()

	u, err := s.Create(ctx, repository.CreateUserInput{Email: "a@example.com", Username: "a"})
	require.NoError(t, err)
	require.Nil(t, u.PasswordHash)

	require.NoError(t, s.UpdatePassword(ctx, u.ID, "phc-string"))

	got, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got.PasswordHash)
	require.Equal(t, "phc-string", *got.PasswordHash)

	require.ErrorIs(t, s.UpdatePassword(ctx, "nope", "x"), repository.ErrNotFound)
}
