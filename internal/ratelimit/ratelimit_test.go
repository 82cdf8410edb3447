package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/Anshuman71/micros/internal/store/redisstore"
)

func newTestLimiter(t *testing.T, limit int) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := redisstore.New(mr.Addr(), "", 0)
	if err != nil {
		t.Fatalf("open redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewLimiter(store, limit), mr
}

func TestCheck_DailyQuota(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		res, err := l.Check(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
		if !res.Allowed {
			t.Fatalf("check %d: expected allowed", i+1)
		}
		wantRemaining := 5 - i - 1
		if res.Remaining != wantRemaining {
			t.Fatalf("check %d: remaining = %d, want %d", i+1, res.Remaining, wantRemaining)
		}
	}

	res, err := l.Check(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("sixth check: %v", err)
	}
	if res.Allowed {
		t.Fatalf("sixth check: expected denied")
	}
	if res.Remaining != 0 {
		t.Fatalf("sixth check: remaining = %d, want 0", res.Remaining)
	}

	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).Add(24 * time.Hour)
	if res.ResetAt.After(nextMidnight) {
		t.Fatalf("resetAt %v is past next local midnight %v", res.ResetAt, nextMidnight)
	}
	if !res.ResetAt.After(now.Add(-time.Minute)) {
		t.Fatalf("resetAt %v is in the past", res.ResetAt)
	}

	if ttl := mr.TTL("rate-limit:diet-chat:1.2.3.4"); ttl <= 0 {
		t.Fatalf("counter key has no expiry, ttl=%v", ttl)
	}
}

func TestCheck_IdentifiersIsolated(t *testing.T) {
	l, _ := newTestLimiter(t, 5)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := l.Check(ctx, "a"); err != nil {
			t.Fatalf("check a %d: %v", i+1, err)
		}
	}

	res, err := l.Check(ctx, "b")
	if err != nil {
		t.Fatalf("check b: %v", err)
	}
	if !res.Allowed || res.Remaining != 4 {
		t.Fatalf("identifier b should have a fresh quota, got allowed=%v remaining=%d", res.Allowed, res.Remaining)
	}
}

func TestCheck_WindowResetsAfterExpiry(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		if _, err := l.Check(ctx, "1.2.3.4"); err != nil {
			t.Fatalf("check %d: %v", i+1, err)
		}
	}

	// Across the day boundary the counter key is gone and the quota is fresh.
	mr.FastForward(25 * time.Hour)

	res, err := l.Check(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("check after expiry: %v", err)
	}
	if !res.Allowed || res.Remaining != 4 {
		t.Fatalf("expected a fresh window, got allowed=%v remaining=%d", res.Allowed, res.Remaining)
	}
}

func TestCheck_BackendUnavailable(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	mr.Close()

	if _, err := l.Check(context.Background(), "1.2.3.4"); err == nil {
		t.Fatalf("expected error when backend is down")
	}
}

func TestCheck_CorruptCounter(t *testing.T) {
	l, mr := newTestLimiter(t, 5)
	if err := mr.Set("rate-limit:diet-chat:1.2.3.4", "not-a-number"); err != nil {
		t.Fatalf("seed corrupt counter: %v", err)
	}

	if _, err := l.Check(context.Background(), "1.2.3.4"); err == nil {
		t.Fatalf("expected error for corrupt counter value")
	}
}
