package redis

import "errors"

var (
	ErrEmptyURL    = errors.New("redis: empty connection URL, set REDIS_URL")
	ErrInvalidURL  = errors.New("redis: invalid connection URL")
	ErrNotReady    = errors.New("redis: server not ready")
	ErrUnavailable = errors.New("redis: server unavailable")
)
