package async

import (
	"context"
	"sync"
)

// Future represents the result of an asynchronous computation.
type Future[U any] struct {
	result U
	err    error
	once   sync.Once
	done   chan struct{}
}

// Await blocks until the computation completes and returns its result and error.
func (f *Future[U]) Await() (U, error) {
	<-f.done
	return f.result, f.err
}

// AwaitContext waits for completion or for ctx to be done, whichever comes first.
// When ctx wins, the computation keeps running; only the wait is abandoned.
func (f *Future[U]) AwaitContext(ctx context.Context) (U, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero U
		return zero, ctx.Err()
	}
}

// Done returns a channel that is closed once the computation completes.
func (f *Future[U]) Done() <-chan struct{} {
	return f.done
}

// IsComplete reports whether the computation has finished without blocking.
func (f *Future[U]) IsComplete() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}

func (f *Future[U]) complete(res U, err error) {
	f.once.Do(func() {
		f.result = res
		f.err = err
		close(f.done)
	})
}

// Async runs fn in its own goroutine and returns a Future for its result.
// A panic inside fn is recovered and reported as a *PanicError, so a
// misbehaving producer can never take the process down.
func Async[T any, U any](ctx context.Context, param T, fn func(context.Context, T) (U, error)) *Future[U] {
	f := &Future[U]{done: make(chan struct{})}

	go func() {
		var zero U

		// Pre-cancelled context: skip the call entirely
		if err := ctx.Err(); err != nil {
			f.complete(zero, err)
			return
		}

		defer func() {
			if r := recover(); r != nil {
				f.complete(zero, &PanicError{Value: r})
			}
		}()

		res, err := fn(ctx, param)
		f.complete(res, err)
	}()

	return f
}

// WaitAll waits for every future and returns their results in order.
// The first non-nil error encountered is returned alongside the partial results.
func WaitAll[U any](futures ...*Future[U]) ([]U, error) {
	results := make([]U, len(futures))

	for i, future := range futures {
		result, err := future.Await()
		results[i] = result
		if err != nil {
			return results, err
		}
	}

	return results, nil
}
