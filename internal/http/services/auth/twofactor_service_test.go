package auth

import (
	"context"
	"testing"
	"time"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
)

func newTwoFactor(t *testing.T, mailer *fakeMailer, ttl time.Duration) *TwoFactorService {
	t.Helper()
	c, err := cache.New(cache.Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return NewTwoFactorService(TwoFactorDeps{Cache: c, Mailer: mailer, Digits: 6, TTL: ttl})
}

func TestTwoFactorIssueAndVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTwoFactor(t, mailer, time.Minute)

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	mail, ok := mailer.lastCode()
	if !ok {
		t.Fatal("no code was mailed")
	}
	if mail.To != "user@example.com" {
		t.Fatalf("code sent to %q", mail.To)
	}
	if len(mail.Value) != 6 {
		t.Fatalf("code %q length = %d, want 6", mail.Value, len(mail.Value))
	}

	if err := s.Verify(ctx, "user-1", mail.Value); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestTwoFactorCodeIsSingleUse(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTwoFactor(t, mailer, time.Minute)

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	mail, _ := mailer.lastCode()

	if err := s.Verify(ctx, "user-1", mail.Value); err != nil {
		t.Fatalf("first Verify: %v", err)
	}
	if err := s.Verify(ctx, "user-1", mail.Value); err != ErrCodeInvalid {
		t.Fatalf("second Verify = %v, want ErrCodeInvalid", err)
	}
}

func TestTwoFactorWrongCodeBurnsTheCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTwoFactor(t, mailer, time.Minute)

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	mail, _ := mailer.lastCode()

	if err := s.Verify(ctx, "user-1", "000000"); err != ErrCodeInvalid {
		t.Fatalf("wrong code = %v, want ErrCodeInvalid", err)
	}
	// The mismatch consumed the stored code; even the right one fails now.
	if err := s.Verify(ctx, "user-1", mail.Value); err != ErrCodeInvalid {
		t.Fatalf("correct code after mismatch = %v, want ErrCodeInvalid", err)
	}
}

func TestTwoFactorExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTwoFactor(t, mailer, 30*time.Millisecond)

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	mail, _ := mailer.lastCode()

	time.Sleep(80 * time.Millisecond)
	if err := s.Verify(ctx, "user-1", mail.Value); err != ErrCodeInvalid {
		t.Fatalf("expired code = %v, want ErrCodeInvalid", err)
	}
}

func TestTwoFactorReissueReplacesCode(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	mailer := &fakeMailer{}
	s := newTwoFactor(t, mailer, time.Minute)

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("Issue: %v", err)
	}
	first, _ := mailer.lastCode()

	if err := s.Issue(ctx, "user-1", "user@example.com"); err != nil {
		t.Fatalf("second Issue: %v", err)
	}
	second, _ := mailer.lastCode()

	if first.Value != second.Value {
		// The old code must be dead once a new one is out.
		if err := s.Verify(ctx, "user-1", first.Value); err != ErrCodeInvalid {
			t.Fatalf("stale code = %v, want ErrCodeInvalid", err)
		}
	}
}

func TestTwoFactorVerifyUnknownUser(t *testing.T) {
	t.Parallel()
	s := newTwoFactor(t, &fakeMailer{}, time.Minute)

	if err := s.Verify(context.Background(), "never-issued", "123456"); err != ErrCodeInvalid {
		t.Fatalf("Verify = %v, want ErrCodeInvalid", err)
	}
}
