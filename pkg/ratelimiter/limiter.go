package ratelimiter

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrymomot/depselect/pkg/cache"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
}

// Limiter is an in-memory token bucket limiter keyed by string. Buckets
// live in a TTL cache so idle keys are forgotten.
type Limiter struct {
	cfg     Config
	now     func() time.Time
	buckets *cache.Cache[string, *bucket]
	mu      sync.Mutex
}

type Option func(*Limiter)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		if now != nil {
			l.now = now
		}
	}
}

func New(cfg Config, opts ...Option) (*Limiter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	l := &Limiter{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	l.buckets = cache.New[string, *bucket](cache.WithTTL(cfg.IdleTTL), cache.WithClock(l.now))
	return l, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	return l.AllowN(ctx, key, 1)
}

// AllowN takes n tokens from the bucket of key. A denied call still
// consumes, so hammering a key keeps it limited.
func (l *Limiter) AllowN(_ context.Context, key string, n int) (Result, error) {
	if n <= 0 {
		return Result{}, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets.Get(key)
	if !ok {
		b = &bucket{tokens: l.cfg.Capacity, lastRefill: now}
	}

	// Cap the interval count so a long idle period cannot overflow.
	maxIntervals := int64(l.cfg.Capacity/l.cfg.RefillRate + 1)
	if intervals := int(min(int64(now.Sub(b.lastRefill)/l.cfg.RefillInterval), maxIntervals)); intervals > 0 {
		b.tokens = min(b.tokens+intervals*l.cfg.RefillRate, l.cfg.Capacity)
		b.lastRefill = now
	}
	b.tokens = max(b.tokens-n, -l.cfg.Capacity)
	l.buckets.Put(key, b)

	return Result{
		Limit:     l.cfg.Capacity,
		Remaining: b.tokens,
		ResetAt:   b.lastRefill.Add(l.cfg.RefillInterval),
		now:       now,
	}, nil
}

// Reset forgets the bucket of key.
func (l *Limiter) Reset(key string) {
	l.buckets.Remove(key)
}

// RunJanitor drops idle buckets every interval until ctx is done.
func (l *Limiter) RunJanitor(ctx context.Context, interval time.Duration) {
	l.buckets.RunJanitor(ctx, interval)
}
