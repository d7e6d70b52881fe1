package selection

import (
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/metrics"
	"github.com/dmitrymomot/depselect/svc/events"
)

type options struct {
	id         string
	log        *slog.Logger
	publisher  events.Publisher
	retryCount int
	retryDelay time.Duration
	cacheTime  time.Duration
	metrics    *metrics.Metrics
	clock      func() time.Time
}

// Option configures a Coordinator.
type Option func(*options)

// WithLogger sets the logger passed down to both loaders.
func WithLogger(log *slog.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithPublisher sets where selection events go. Publishing failures are
// logged and never fail the operation.
func WithPublisher(p events.Publisher) Option {
	return func(o *options) {
		if p != nil {
			o.publisher = p
		}
	}
}

// WithRetry applies to both loaders: count extra attempts after the first
// failure with a fixed delay between them.
func WithRetry(count int, delay time.Duration) Option {
	return func(o *options) {
		o.retryCount = count
		o.retryDelay = delay
	}
}

// WithCacheTime caches loaded lists per key for d. Zero disables caching.
func WithCacheTime(d time.Duration) Option {
	return func(o *options) { o.cacheTime = d }
}

// WithMetrics records fetch attempts, failures and durations, and counts
// published events. Nil disables instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithID sets the aggregate id stamped on published events.
// A random UUID is used by default.
func WithID(id string) Option {
	return func(o *options) {
		if id != "" {
			o.id = id
		}
	}
}

// WithClock replaces the clock used for cache expiry and submissions.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.clock = now
		}
	}
}

func defaultOptions() options {
	return options{
		id:        uuid.NewString(),
		log:       logger.Nop(),
		publisher: events.Nop,
		clock:     time.Now,
	}
}
