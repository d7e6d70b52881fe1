package cache

import "time"

type config struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
}

func defaultConfig() *config {
	return &config{now: time.Now}
}

// Option configures a Cache.
type Option func(*config)

// WithCapacity bounds the cache to n entries with LRU eviction.
// Non-positive values keep the cache unbounded.
func WithCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithTTL sets how long an entry stays live after it was stored.
func WithTTL(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}
