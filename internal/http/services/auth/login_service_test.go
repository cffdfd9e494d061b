package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/domain/repository"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/security/password"
	"github.com/DogisRiki/KeirekiPro-sub004/internal/store/memstore"
)

var loginTestParams = password.Params{Memory: 8 * 1024, Time: 1, Parallelism: 1, KeyLen: 32}

func seedUser(t *testing.T, users *memstore.UserStore, email, plain string, twoFactor bool) *repository.User {
	t.Helper()
	var hash *string
	if plain != "" {
		h, err := password.Hash(loginTestParams, plain)
		if err != nil {
			t.Fatalf("Hash: %v", err)
		}
		hash = &h
	}
	u, err := users.Create(context.Background(), repository.CreateUserInput{
		Email:        email,
		Username:     "tester",
		PasswordHash: hash,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	users.SetTwoFactor(u.ID, twoFactor)
	return u
}

func newLogin(t *testing.T, users *memstore.UserStore, mailer *fakeMailer) *LoginService {
	t.Helper()
	c, err := cache.New(cache.Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	tf := NewTwoFactorService(TwoFactorDeps{Cache: c, Mailer: mailer, Digits: 6, TTL: time.Minute})
	return NewLoginService(LoginDeps{Users: users, TwoFactor: tf})
}

func TestLoginSuccess(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	u := seedUser(t, users, "alice@example.com", "hunter2-hunter2", false)
	s := newLogin(t, users, &fakeMailer{})

	res, err := s.Login(context.Background(), "alice@example.com", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if res.UserID != u.ID || res.TwoFactorRequired {
		t.Fatalf("Login = %+v", res)
	}
}

func TestLoginEmailCaseInsensitive(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	seedUser(t, users, "alice@example.com", "hunter2-hunter2", false)
	s := newLogin(t, users, &fakeMailer{})

	if _, err := s.Login(context.Background(), "  ALICE@Example.COM ", "hunter2-hunter2"); err != nil {
		t.Fatalf("Login with cased email: %v", err)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	seedUser(t, users, "alice@example.com", "hunter2-hunter2", false)
	s := newLogin(t, users, &fakeMailer{})

	if _, err := s.Login(context.Background(), "alice@example.com", "wrong"); err != ErrInvalidCredentials {
		t.Fatalf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	t.Parallel()
	s := newLogin(t, memstore.NewUserStore(), &fakeMailer{})

	if _, err := s.Login(context.Background(), "nobody@example.com", "whatever"); err != ErrInvalidCredentials {
		t.Fatalf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginSocialOnlyAccount(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	// No password hash: account was provisioned through a provider.
	seedUser(t, users, "social@example.com", "", false)
	s := newLogin(t, users, &fakeMailer{})

	if _, err := s.Login(context.Background(), "social@example.com", "anything"); err != ErrInvalidCredentials {
		t.Fatalf("Login = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginWithTwoFactorGates(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	u := seedUser(t, users, "bob@example.com", "hunter2-hunter2", true)
	mailer := &fakeMailer{}
	s := newLogin(t, users, mailer)

	res, err := s.Login(context.Background(), "bob@example.com", "hunter2-hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !res.TwoFactorRequired || res.UserID != u.ID {
		t.Fatalf("Login = %+v, want two-factor gate", res)
	}

	mail, ok := mailer.lastCode()
	if !ok {
		t.Fatal("no two-factor code mailed")
	}
	if mail.To != "bob@example.com" {
		t.Fatalf("code sent to %q", mail.To)
	}
}

func TestLoginTwoFactorMailFailureSurfaces(t *testing.T) {
	t.Parallel()
	users := memstore.NewUserStore()
	seedUser(t, users, "bob@example.com", "hunter2-hunter2", true)
	mailer := &fakeMailer{failNext: true}
	s := newLogin(t, users, mailer)

	if _, err := s.Login(context.Background(), "bob@example.com", "hunter2-hunter2"); err == nil {
		t.Fatal("expected error when the code cannot be delivered")
	}
}
