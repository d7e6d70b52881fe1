package ratelimiter

import (
	"fmt"
	"time"
)

// Config describes a token bucket: Capacity is the burst, RefillRate tokens
// are added every RefillInterval.
type Config struct {
	Capacity       int           `env:"RATELIMIT_CAPACITY" envDefault:"60"`
	RefillRate     int           `env:"RATELIMIT_REFILL_RATE" envDefault:"30"`
	RefillInterval time.Duration `env:"RATELIMIT_REFILL_INTERVAL" envDefault:"1s"`
	// IdleTTL drops buckets unused for this long; they restart full.
	IdleTTL time.Duration `env:"RATELIMIT_IDLE_TTL" envDefault:"1h"`
}

func (c Config) validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	case c.RefillRate <= 0:
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	case c.RefillInterval <= 0:
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// Result is the outcome of one Allow call.
type Result struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
	now       time.Time
}

func (r Result) Allowed() bool { return r.Remaining >= 0 }

// RetryAfter is how long to wait before the next token; zero when allowed.
func (r Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(r.ResetAt.Sub(r.now), 0)
}
