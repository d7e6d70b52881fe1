package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/depselect/pkg/async"
)

// Connect parses cfg.ConnectionURL and pings the server until it answers,
// cfg.RetryAttempts times at most, within cfg.ConnectTimeout.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	if cfg.ConnectionURL == "" {
		return nil, ErrEmptyURL
	}

	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	policy := async.RetryPolicy{Retries: max(cfg.RetryAttempts-1, 0), Delay: cfg.RetryInterval}
	client, err := async.Retry(ctx, policy, func(ctx context.Context, _ int) (*redis.Client, error) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	}, nil)
	if err != nil {
		return nil, errors.Join(ErrNotReady, err)
	}
	return client, nil
}
