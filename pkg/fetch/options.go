package fetch

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/depselect/pkg/async"
	"github.com/dmitrymomot/depselect/pkg/logger"
)

type config[K comparable, T any] struct {
	name        string
	retry       async.RetryPolicy
	cacheTime   time.Duration
	enabled     bool
	onSuccess   func(K, T)
	onError     func(K, error)
	initialData T
	key         K
	log         *slog.Logger
	now         func() time.Time
	fallback    string
	bufferSize  int
}

func defaultConfig[K comparable, T any]() config[K, T] {
	return config[K, T]{
		name:       "fetch",
		enabled:    true,
		log:        logger.Nop(),
		now:        time.Now,
		fallback:   DefaultFallbackMessage,
		bufferSize: 16,
	}
}

// Option configures a Loader.
type Option[K comparable, T any] func(*config[K, T])

// WithRetry sets the number of additional attempts after the first failure
// and the fixed delay between attempts. Negative values are treated as zero.
func WithRetry[K comparable, T any](count int, delay time.Duration) Option[K, T] {
	return func(c *config[K, T]) {
		c.retry = async.RetryPolicy{Retries: max(count, 0), Delay: max(delay, 0)}
	}
}

// WithCacheTime enables per-key result caching for d. Zero disables caching.
func WithCacheTime[K comparable, T any](d time.Duration) Option[K, T] {
	return func(c *config[K, T]) { c.cacheTime = max(d, 0) }
}

// WithEnabled starts the loader disabled when enabled is false.
func WithEnabled[K comparable, T any](enabled bool) Option[K, T] {
	return func(c *config[K, T]) { c.enabled = enabled }
}

// WithOnSuccess registers a callback run after a fetch resolves, outside the
// loader lock. Panics in fn are recovered and logged.
func WithOnSuccess[K comparable, T any](fn func(key K, data T)) Option[K, T] {
	return func(c *config[K, T]) { c.onSuccess = fn }
}

// WithOnError registers a callback run after retries are exhausted.
// Panics in fn are recovered and logged.
func WithOnError[K comparable, T any](fn func(key K, err error)) Option[K, T] {
	return func(c *config[K, T]) { c.onError = fn }
}

// WithInitialData sets the data reported before the first successful fetch.
func WithInitialData[K comparable, T any](data T) Option[K, T] {
	return func(c *config[K, T]) { c.initialData = data }
}

// WithKey sets the initial dependency key.
func WithKey[K comparable, T any](key K) Option[K, T] {
	return func(c *config[K, T]) { c.key = key }
}

// WithLogger sets the logger. Nil keeps the discard logger.
func WithLogger[K comparable, T any](log *slog.Logger) Option[K, T] {
	return func(c *config[K, T]) {
		if log != nil {
			c.log = log
		}
	}
}

// WithName labels log records and broadcast topics.
func WithName[K comparable, T any](name string) Option[K, T] {
	return func(c *config[K, T]) {
		if name != "" {
			c.name = name
		}
	}
}

// WithClock replaces time.Now for cache expiry and State.UpdatedAt.
func WithClock[K comparable, T any](now func() time.Time) Option[K, T] {
	return func(c *config[K, T]) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFallbackMessage sets State.Err for failures that carry no message,
// such as a panic with a non-error value. Defaults to DefaultFallbackMessage.
func WithFallbackMessage[K comparable, T any](msg string) Option[K, T] {
	return func(c *config[K, T]) {
		if msg != "" {
			c.fallback = msg
		}
	}
}

// WithSubscriberBuffer sets how many state updates a slow subscriber may lag
// behind before updates are dropped for it.
func WithSubscriberBuffer[K comparable, T any](n int) Option[K, T] {
	return func(c *config[K, T]) {
		if n > 0 {
			c.bufferSize = n
		}
	}
}
