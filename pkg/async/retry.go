package async

import (
	"context"
	"time"
)

// Sleep pauses for d or until ctx is done.
// It returns ctx.Err() when the wait was interrupted.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RetryPolicy describes a fixed-delay retry schedule.
// Retries is the number of additional attempts after the first failure.
type RetryPolicy struct {
	Retries int
	Delay   time.Duration
}

// Attempts returns the total number of attempts the policy allows.
func (p RetryPolicy) Attempts() int {
	return max(p.Retries, 0) + 1
}

// Retry calls fn until it succeeds, the policy is exhausted or ctx is done.
// The attempt number passed to fn starts at 1. onRetry, when not nil, is called
// after every failed attempt that will be followed by another one.
// The delay between attempts is constant.
func Retry[U any](
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context, attempt int) (U, error),
	onRetry func(attempt int, err error),
) (U, error) {
	var (
		zero U
		err  error
		res  U
	)

	attempts := policy.Attempts()
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return zero, ctxErr
		}

		res, err = fn(ctx, attempt)
		if err == nil {
			return res, nil
		}

		if attempt == attempts {
			break
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		if sleepErr := Sleep(ctx, policy.Delay); sleepErr != nil {
			return zero, sleepErr
		}
	}

	return zero, err
}
