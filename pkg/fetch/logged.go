package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/depselect/pkg/logger"
)

// Logged wraps producer so every call is logged with its duration and outcome.
// Successful calls log at debug level, failures at warn.
func Logged[K comparable, T any](log *slog.Logger, op string, producer Producer[K, T]) Producer[K, T] {
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Operation(op))

	return func(ctx context.Context, key K) (T, error) {
		start := time.Now()
		data, err := producer(ctx, key)
		if err != nil {
			log.WarnContext(ctx, "producer failed",
				logger.Key(key), logger.Duration(time.Since(start)), logger.Error(err))
			return data, err
		}
		log.DebugContext(ctx, "producer succeeded",
			logger.Key(key), logger.Duration(time.Since(start)))
		return data, nil
	}
}
