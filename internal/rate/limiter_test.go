package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiterAllowsUpToMax(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := NewMemoryLimiter(3, time.Hour)

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "ip-1")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d denied, max is 3", i)
		}
	}

	res, err := l.Allow(ctx, "ip-1")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("hit 4 allowed, max is 3")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("RetryAfter = %v, want positive", res.RetryAfter)
	}
}

func TestMemoryLimiterKeysIndependent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := NewMemoryLimiter(1, time.Hour)

	if res, _ := l.Allow(ctx, "ip-1"); !res.Allowed {
		t.Fatal("first hit on ip-1 denied")
	}
	if res, _ := l.Allow(ctx, "ip-1"); res.Allowed {
		t.Fatal("second hit on ip-1 allowed")
	}
	if res, _ := l.Allow(ctx, "ip-2"); !res.Allowed {
		t.Fatal("ip-2 throttled by ip-1's hits")
	}
}

func TestMemoryLimiterRemainingCounts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := NewMemoryLimiter(5, time.Hour)

	res, err := l.Allow(ctx, "k")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Remaining != 4 || res.CurrentHits != 1 {
		t.Fatalf("Result = %+v", res)
	}
}
