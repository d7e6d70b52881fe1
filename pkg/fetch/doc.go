// Package fetch tracks asynchronous data loading keyed by a dependency value.
//
// A Loader wraps a Producer and exposes its progress as a State with one of
// four statuses: idle, loading, success or error. Changing the key supersedes
// any in-flight request; its eventual result is discarded. Failed attempts are
// retried with a fixed delay, successful results can be cached per key for a
// configurable time, and a Loader can be cancelled, disabled or closed.
//
//	subs := fetch.New(func(ctx context.Context, id string) ([]string, error) {
//		return repo.List(ctx, id)
//	},
//		fetch.WithRetry[string, []string](2, time.Second),
//		fetch.WithCacheTime[string, []string](30*time.Second),
//	)
//	defer subs.Close()
//
//	subs.SetKey("cat-tech")
//	st, err := subs.Wait(ctx)
//
// The loader never panics or returns producer errors to its caller. Failures
// are normalized into State.Err; a recovered panic without an error value is
// reported with the fallback message.
package fetch
