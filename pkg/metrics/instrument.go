package metrics

import (
	"context"
	"time"

	"github.com/dmitrymomot/depselect/pkg/fetch"
)

// Instrument wraps producer so every call is counted and timed under op.
// A nil m returns producer unchanged.
func Instrument[K comparable, T any](m *Metrics, op string, producer fetch.Producer[K, T]) fetch.Producer[K, T] {
	if m == nil {
		return producer
	}

	return func(ctx context.Context, key K) (T, error) {
		start := time.Now()
		data, err := producer(ctx, key)
		m.FetchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeFailure
		}
		m.FetchTotal.WithLabelValues(op, outcome).Inc()
		return data, err
	}
}
