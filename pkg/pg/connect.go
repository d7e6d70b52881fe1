package pg

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/depselect/pkg/async"
)

// Connect opens a pool and pings it, retrying with a fixed interval.
func Connect(ctx context.Context, cfg Config) (*pgxpool.Pool, error) {
	if cfg.ConnectionString == "" {
		return nil, ErrEmptyConnString
	}

	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrInvalidConfig, err)
	}
	connConfig.MaxConns = cfg.MaxOpenConns
	connConfig.MinConns = cfg.MaxIdleConns
	connConfig.HealthCheckPeriod = cfg.HealthCheckPeriod
	connConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	connConfig.MaxConnLifetime = cfg.MaxConnLifetime

	policy := async.RetryPolicy{Retries: max(cfg.RetryAttempts-1, 0), Delay: cfg.RetryInterval}
	pool, err := async.Retry(ctx, policy, func(ctx context.Context, _ int) (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return nil, err
		}
		// Ping catches authentication and permission problems early.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}, nil)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, err)
	}
	return pool, nil
}
