package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/depselect/pkg/cache"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCache_Basic(t *testing.T) {
	t.Parallel()

	t.Run("put and get", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int]()

		c.Put("a", 1)
		c.Put("b", 2)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)
		assert.Equal(t, 2, c.Len())
	})

	t.Run("get missing", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int]()

		val, ok := c.Get("missing")
		assert.False(t, ok)
		assert.Zero(t, val)
	})

	t.Run("update existing returns old value", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int]()

		c.Put("a", 1)
		old, existed := c.Put("a", 2)

		assert.True(t, existed)
		assert.Equal(t, 1, old)
		val, _ := c.Get("a")
		assert.Equal(t, 2, val)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("remove", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int]()
		c.Put("a", 1)

		val, ok := c.Remove("a")
		assert.True(t, ok)
		assert.Equal(t, 1, val)

		_, ok = c.Remove("a")
		assert.False(t, ok)
		assert.Zero(t, c.Len())
	})

	t.Run("struct keys compare by value", func(t *testing.T) {
		t.Parallel()
		type key struct {
			Category string
			Page     int
		}
		c := cache.New[key, string]()
		c.Put(key{"cat-tech", 1}, "x")

		val, ok := c.Get(key{"cat-tech", 1})
		assert.True(t, ok)
		assert.Equal(t, "x", val)
	})
}

func TestCache_TTL(t *testing.T) {
	t.Parallel()

	t.Run("entry is live before ttl", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := cache.New[string, int](cache.WithTTL(30*time.Second), cache.WithClock(clock.Now))

		c.Put("a", 1)
		clock.Advance(29 * time.Second)

		entry, ok := c.Entry("a")
		require.True(t, ok)
		assert.Equal(t, 1, entry.Value)
		assert.Equal(t, clock.Now().Add(-29*time.Second), entry.StoredAt)
	})

	t.Run("entry expires exactly at ttl", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := cache.New[string, int](cache.WithTTL(30*time.Second), cache.WithClock(clock.Now))

		c.Put("a", 1)
		clock.Advance(30 * time.Second)

		_, ok := c.Get("a")
		assert.False(t, ok)
		assert.Zero(t, c.Len(), "expired entry is evicted lazily on read")
	})

	t.Run("put refreshes timestamp", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := cache.New[string, int](cache.WithTTL(10*time.Second), cache.WithClock(clock.Now))

		c.Put("a", 1)
		clock.Advance(8 * time.Second)
		c.Put("a", 2)
		clock.Advance(8 * time.Second)

		val, ok := c.Get("a")
		assert.True(t, ok)
		assert.Equal(t, 2, val)
	})

	t.Run("sweep removes only expired entries", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := cache.New[string, int](cache.WithTTL(10*time.Second), cache.WithClock(clock.Now))

		c.Put("old", 1)
		clock.Advance(6 * time.Second)
		c.Put("new", 2)
		clock.Advance(5 * time.Second)

		assert.Equal(t, 1, c.Sweep())
		assert.Equal(t, 1, c.Len())
		_, ok := c.Get("new")
		assert.True(t, ok)
	})

	t.Run("sweep without ttl is a no-op", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int]()
		c.Put("a", 1)
		assert.Zero(t, c.Sweep())
		assert.Equal(t, 1, c.Len())
	})

	t.Run("janitor sweeps until context is done", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](cache.WithTTL(5 * time.Millisecond))
		c.Put("a", 1)

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			c.RunJanitor(ctx, 5*time.Millisecond)
			close(done)
		}()

		assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
		cancel()
		<-done
	})
}

func TestCache_Capacity(t *testing.T) {
	t.Parallel()

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](cache.WithCapacity(2))

		c.Put("a", 1)
		c.Put("b", 2)
		c.Get("a")
		c.Put("c", 3)

		_, ok := c.Get("b")
		assert.False(t, ok, "b should have been evicted")
		_, ok = c.Get("a")
		assert.True(t, ok)
		_, ok = c.Get("c")
		assert.True(t, ok)
	})
}

func TestCache_EvictCallback(t *testing.T) {
	t.Parallel()

	t.Run("called on capacity, expiry, remove and clear", func(t *testing.T) {
		t.Parallel()
		clock := newFakeClock()
		c := cache.New[string, int](cache.WithCapacity(2), cache.WithTTL(time.Minute), cache.WithClock(clock.Now))

		var mu sync.Mutex
		evicted := map[string]int{}
		c.SetEvictCallback(func(key string, value int) {
			mu.Lock()
			defer mu.Unlock()
			evicted[key] = value
		})

		c.Put("a", 1)
		c.Put("b", 2)
		c.Put("c", 3) // evicts a
		c.Remove("b")
		clock.Advance(time.Minute)
		c.Get("c") // expired
		c.Put("d", 4)
		c.Clear()

		assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3, "d": 4}, evicted)
	})

	t.Run("callback may use the cache", func(t *testing.T) {
		t.Parallel()
		c := cache.New[string, int](cache.WithCapacity(1))
		c.SetEvictCallback(func(key string, _ int) {
			_ = c.Len()
		})

		c.Put("a", 1)
		c.Put("b", 2)
		assert.Equal(t, 1, c.Len())
	})
}

func TestCache_Concurrent(t *testing.T) {
	t.Parallel()
	c := cache.New[int, int](cache.WithCapacity(50), cache.WithTTL(time.Second))

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			c.Put(n%60, n)
			c.Get(n % 60)
			c.Sweep()
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, c.Len(), 50)
}
