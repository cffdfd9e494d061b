package cache

import (
	"context"
	"testing"
	"time"
)

func newMemory(t *testing.T) Client {
	t.Helper()
	c, err := New(Config{Driver: "memory", Prefix: "t"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestMemorySetGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(t)

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("Get = (%q, %v)", got, err)
	}
}

func TestMemoryGetMissing(t *testing.T) {
	t.Parallel()
	c := newMemory(t)

	_, err := c.Get(context.Background(), "missing")
	if !IsNotFound(err) {
		t.Fatalf("Get missing = %v, want not-found", err)
	}
}

func TestMemoryGetDel(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(t)

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := c.GetDel(ctx, "k")
	if err != nil || got != "v" {
		t.Fatalf("GetDel = (%q, %v)", got, err)
	}
	if _, err := c.GetDel(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("second GetDel = %v, want not-found", err)
	}
}

func TestMemoryTTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(t)

	if err := c.Set(ctx, "k", "v", 30*time.Millisecond); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(80 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !IsNotFound(err) {
		t.Fatalf("Get after expiry = %v, want not-found", err)
	}
}

func TestMemoryDeleteIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := newMemory(t)

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("second Delete: %v", err)
	}
}
