package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Anshuman71/micros/internal/store/redisstore"
)

const keyPrefix = "rate-limit:diet-chat:"

// Result is the outcome of one quota check.
type Result struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Limiter enforces a fixed number of requests per identifier per
// local day. The window resets at local midnight: the counter key
// expires at end of day, so the first request of a new day recreates it.
type Limiter struct {
	store *redisstore.Store
	limit int
}

func NewLimiter(store *redisstore.Store, limit int) *Limiter {
	if limit <= 0 {
		limit = 5
	}
	return &Limiter{store: store, limit: limit}
}

func (l *Limiter) Limit() int { return l.limit }

// Check consumes one unit of the identifier's daily quota.
// Exactly one backend mutation happens per allowed call (set or
// atomic increment). A backend failure is returned as an error and
// callers must fail closed.
func (l *Limiter) Check(ctx context.Context, identifier string) (Result, error) {
	key := keyPrefix + identifier
	now := time.Now()

	v, err := l.store.Get(ctx, key)
	if err != nil {
		if redisstore.IsNotFound(err) {
			// First request of the day.
			reset := endOfDay(now)
			if err := l.store.SetWithTTL(ctx, key, 1, reset.Sub(now)); err != nil {
				return Result{}, fmt.Errorf("rate limit set: %w", err)
			}
			return Result{Allowed: true, Remaining: l.limit - 1, ResetAt: reset}, nil
		}
		return Result{}, fmt.Errorf("rate limit get: %w", err)
	}

	count, err := strconv.Atoi(v)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit counter %q: %w", v, err)
	}

	if count >= l.limit {
		ttl, err := l.store.TTL(ctx, key)
		if err != nil {
			return Result{}, fmt.Errorf("rate limit ttl: %w", err)
		}
		return Result{Allowed: false, Remaining: 0, ResetAt: now.Add(ttl)}, nil
	}

	n, err := l.store.Incr(ctx, key)
	if err != nil {
		return Result{}, fmt.Errorf("rate limit incr: %w", err)
	}
	return Result{Allowed: true, Remaining: l.limit - int(n), ResetAt: endOfDay(now)}, nil
}

func endOfDay(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, int(999*time.Millisecond), now.Location())
}
