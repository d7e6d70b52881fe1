package ratelimiter_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/ratelimiter"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newLimiter(t *testing.T, cfg ratelimiter.Config) (*ratelimiter.Limiter, *clock) {
	t.Helper()
	clk := &clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	l, err := ratelimiter.New(cfg, ratelimiter.WithClock(clk.Now))
	require.NoError(t, err)
	return l, clk
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()
	for _, cfg := range []ratelimiter.Config{
		{Capacity: 0, RefillRate: 1, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 0, RefillInterval: time.Second},
		{Capacity: 1, RefillRate: 1},
	} {
		_, err := ratelimiter.New(cfg)
		assert.ErrorIs(t, err, ratelimiter.ErrInvalidConfig)
	}
}

func TestLimiter_BurstAndRefill(t *testing.T) {
	t.Parallel()
	l, clk := newLimiter(t, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Second})
	ctx := context.Background()

	for range 2 {
		res, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.True(t, res.Allowed())
	}
	res, err := l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.False(t, res.Allowed())
	assert.Equal(t, time.Second, res.RetryAfter())

	other, err := l.Allow(ctx, "b")
	require.NoError(t, err)
	assert.True(t, other.Allowed(), "keys are independent")

	clk.Advance(2 * time.Second)
	res, err = l.Allow(ctx, "a")
	require.NoError(t, err)
	assert.True(t, res.Allowed())
}

func TestLimiter_InvalidCount(t *testing.T) {
	t.Parallel()
	l, _ := newLimiter(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Second})
	_, err := l.AllowN(context.Background(), "a", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()
	l, _ := newLimiter(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	ctx := context.Background()
	_, _ = l.Allow(ctx, "a")
	res, _ := l.Allow(ctx, "a")
	require.False(t, res.Allowed())

	l.Reset("a")
	res, _ = l.Allow(ctx, "a")
	assert.True(t, res.Allowed())
}

func TestMiddleware(t *testing.T) {
	t.Parallel()
	l, _ := newLimiter(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(l, ratelimiter.ByIP(), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	call := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.1:5000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	first := call()
	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", first.Header().Get("X-RateLimit-Remaining"))

	second := call()
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestMiddleware_EmptyKeyBypasses(t *testing.T) {
	t.Parallel()
	l, _ := newLimiter(t, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Minute})
	h := ratelimiter.Middleware(l, func(*http.Request) string { return "" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
