// Package async provides small generic helpers for running work in the
// background and waiting for it.
//
// Async starts a function in its own goroutine and returns a *Future. The
// caller waits with Await, bounds the wait with AwaitContext, or polls with
// IsComplete. Panics inside the function are recovered and surface as a
// *PanicError instead of crashing the process.
//
// Retry implements a fixed-delay retry loop (no exponential backoff) and Sleep
// is a context-aware pause; both are the building blocks of the fetch loader's
// retry policy.
//
// # Usage
//
//	future := async.Async(ctx, id, func(ctx context.Context, id string) ([]Item, error) {
//		return repo.List(ctx, id)
//	})
//	items, err := future.AwaitContext(ctx)
//
//	res, err := async.Retry(ctx, async.RetryPolicy{Retries: 2, Delay: time.Second},
//		func(ctx context.Context, attempt int) (string, error) {
//			return call(ctx)
//		}, nil)
package async
