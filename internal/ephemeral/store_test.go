package ephemeral

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/DogisRiki/KeirekiPro-sub004/internal/cache"
)

type session struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"codeVerifier"`
}

func newMemoryStore[V any](t *testing.T, namespace string) *Store[V] {
	t.Helper()
	c, err := cache.New(cache.Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return NewStore[V](c, namespace)
}

func TestStoreAndFind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newMemoryStore[session](t, "test")

	want := session{Provider: "google", CodeVerifier: "verifier-123"}
	if err := s.Store(ctx, "state-1", want, time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := s.Find(ctx, "state-1")
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("Find = %+v, want %+v", got, want)
	}

	// Find does not consume.
	if _, ok, _ := s.Find(ctx, "state-1"); !ok {
		t.Fatal("value gone after Find")
	}
}

func TestFindMissingKey(t *testing.T) {
	t.Parallel()
	s := newMemoryStore[string](t, "test")

	_, ok, err := s.Find(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if ok {
		t.Fatal("missing key reported present")
	}
}

func TestConsumeRemoves(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newMemoryStore[string](t, "test")

	if err := s.Store(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := s.Consume(ctx, "k")
	if err != nil || !ok || got != "v" {
		t.Fatalf("Consume = (%q, %v, %v)", got, ok, err)
	}

	if _, ok, _ := s.Consume(ctx, "k"); ok {
		t.Fatal("second Consume succeeded")
	}
	if _, ok, _ := s.Find(ctx, "k"); ok {
		t.Fatal("key still present after Consume")
	}
}

func TestConsumeSingleWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newMemoryStore[string](t, "test")

	if err := s.Store(ctx, "contested", "prize", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}

	var winners atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, ok, err := s.Consume(gctx, "contested")
			if err != nil {
				return err
			}
			if ok {
				winners.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if n := winners.Load(); n != 1 {
		t.Fatalf("winners = %d, want exactly 1", n)
	}
}

func TestExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newMemoryStore[string](t, "test")

	if err := s.Store(ctx, "short", "v", 30*time.Millisecond); err != nil {
		t.Fatalf("Store: %v", err)
	}
	time.Sleep(80 * time.Millisecond)

	if _, ok, _ := s.Find(ctx, "short"); ok {
		t.Fatal("expired value still findable")
	}
	if _, ok, _ := s.Consume(ctx, "short"); ok {
		t.Fatal("expired value still consumable")
	}
}

func TestOverwriteResetsValue(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newMemoryStore[string](t, "test")

	if err := s.Store(ctx, "k", "old", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if err := s.Store(ctx, "k", "new", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}

	got, ok, err := s.Consume(ctx, "k")
	if err != nil || !ok || got != "new" {
		t.Fatalf("Consume = (%q, %v, %v), want new value", got, ok, err)
	}
}

func TestNamespacesIsolate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c, err := cache.New(cache.Config{Driver: "memory"})
	if err != nil {
		t.Fatalf("cache.New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	a := NewStore[string](c, "a")
	b := NewStore[string](c, "b")

	if err := a.Store(ctx, "k", "from-a", time.Minute); err != nil {
		t.Fatalf("Store: %v", err)
	}
	if _, ok, _ := b.Find(ctx, "k"); ok {
		t.Fatal("namespace b sees namespace a's key")
	}
}
