package fetch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/depselect/pkg/async"
	"github.com/dmitrymomot/depselect/pkg/broadcast"
	"github.com/dmitrymomot/depselect/pkg/cache"
	"github.com/dmitrymomot/depselect/pkg/logger"
	"github.com/dmitrymomot/depselect/pkg/statemachine"
)

// Producer performs one fetch attempt for key.
// ctx is cancelled when the attempt is superseded, cancelled or the loader closes.
type Producer[K comparable, T any] func(ctx context.Context, key K) (T, error)

// flight is one trigger of the loader. done is closed when the flight settles
// or is superseded.
type flight struct {
	gen     uint64
	cancel  context.CancelFunc
	done    chan struct{}
	settled bool
}

func (f *flight) settle() {
	if f.settled {
		return
	}
	f.settled = true
	if f.cancel != nil {
		f.cancel()
	}
	close(f.done)
}

// Loader tracks the asynchronous loading of a value that depends on a key.
//
// Every trigger starts a new generation. Results are committed only when their
// generation is still current, so a slow response for an old key never
// overwrites the state of a newer one. All methods are safe for concurrent use.
type Loader[K comparable, T any] struct {
	producer Producer[K, T]
	cfg      config[K, T]
	log      *slog.Logger

	mu      sync.Mutex
	key     K
	state   State[T]
	dataKey K
	hasData bool
	machine *statemachine.Machine[Status, event]
	gen     uint64
	cur     *flight
	enabled bool
	closed  bool

	cache     *cache.Cache[K, T]
	updates   *broadcast.MemoryBroadcaster[State[T]]
	stopSweep context.CancelFunc
	wg        sync.WaitGroup
}

// New creates an idle loader. It does not fetch until Trigger, SetKey or
// SetEnabled(true) is called.
func New[K comparable, T any](producer Producer[K, T], opts ...Option[K, T]) *Loader[K, T] {
	if producer == nil {
		panic(ErrNilProducer)
	}

	cfg := defaultConfig[K, T]()
	for _, opt := range opts {
		opt(&cfg)
	}

	done := make(chan struct{})
	close(done)

	l := &Loader[K, T]{
		producer: producer,
		cfg:      cfg,
		log:      cfg.log.With(logger.Component("fetch"), logger.Operation(cfg.name)),
		key:      cfg.key,
		state:    State[T]{Data: cfg.initialData, Status: StatusIdle, UpdatedAt: cfg.now()},
		machine:  newMachine(),
		cur:      &flight{done: done, settled: true},
		enabled:  cfg.enabled,
		updates:  broadcast.NewMemoryBroadcaster[State[T]](cfg.bufferSize),
	}

	if cfg.cacheTime > 0 {
		l.cache = cache.New[K, T](cache.WithTTL(cfg.cacheTime), cache.WithClock(cfg.now))

		ctx, stop := context.WithCancel(context.Background())
		l.stopSweep = stop
		l.wg.Add(1)
		go func() {
			defer l.wg.Done()
			l.cache.RunJanitor(ctx, cfg.cacheTime)
		}()
	}

	return l
}

func newMachine() *statemachine.Machine[Status, event] {
	return statemachine.MustNew(StatusIdle,
		statemachine.WithTransitionsFrom(
			[]Status{StatusIdle, StatusSuccess, StatusError, StatusLoading},
			StatusLoading, eventFetch,
		),
		statemachine.WithTransition[Status, event](StatusLoading, StatusSuccess, eventResolve),
		statemachine.WithTransition[Status, event](StatusLoading, StatusError, eventReject),
		statemachine.WithTransition[Status, event](StatusLoading, StatusIdle, eventCancel),
		statemachine.WithTransitionFromAny[Status, event](StatusSuccess, eventHit),
	)
}

// State returns the current snapshot.
func (l *Loader[K, T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// DataState returns the current snapshot together with the key its Data was
// fetched for. ok is false while Data is still the initial value. After a key
// change dataKey lags Key until the new fetch resolves.
func (l *Loader[K, T]) DataState() (st State[T], dataKey K, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.dataKey, l.hasData
}

// Key returns the current dependency key.
func (l *Loader[K, T]) Key() K {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

// Enabled reports whether the loader reacts to triggers.
func (l *Loader[K, T]) Enabled() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enabled
}

// Trigger (re)starts loading for the current key. A live cache entry
// resolves immediately without calling the producer.
func (l *Loader[K, T]) Trigger() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.triggerLocked()
}

// Refetch drops the cached value for the current key and triggers.
func (l *Loader[K, T]) Refetch() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.cache != nil {
		l.cache.Remove(l.key)
	}
	l.triggerLocked()
}

// SetKey switches the dependency key. A different key supersedes any
// in-flight fetch and triggers; an equal key is a no-op.
// Disabled loaders record the key without fetching.
func (l *Loader[K, T]) SetKey(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || key == l.key {
		return
	}
	l.key = key
	l.triggerLocked()
}

// SetEnabled toggles the loader. Enabling a disabled loader triggers the current key.
func (l *Loader[K, T]) SetEnabled(enabled bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed || l.enabled == enabled {
		return
	}
	l.enabled = enabled
	if enabled {
		l.triggerLocked()
	}
}

// Cancel aborts the in-flight fetch. Its result is discarded and a loading
// state returns to idle with data retained.
func (l *Loader[K, T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cur.settled {
		return
	}
	l.cur.settle()
	if l.state.Status == StatusLoading {
		l.commitLocked(eventCancel, func(s *State[T]) {})
	}
	l.log.Debug("fetch cancelled", logger.Key(l.key))
}

// Wait blocks until the current fetch settles and returns the resulting state.
// If a newer fetch supersedes the awaited one, Wait follows it.
func (l *Loader[K, T]) Wait(ctx context.Context) (State[T], error) {
	for {
		l.mu.Lock()
		f := l.cur
		l.mu.Unlock()

		select {
		case <-f.done:
		case <-ctx.Done():
			return l.State(), ctx.Err()
		}

		l.mu.Lock()
		if l.cur == f {
			st := l.state
			l.mu.Unlock()
			return st, nil
		}
		l.mu.Unlock()
	}
}

// Subscribe streams every committed state until ctx is done or the loader closes.
// Slow subscribers miss intermediate states.
func (l *Loader[K, T]) Subscribe(ctx context.Context) broadcast.Subscriber[State[T]] {
	return l.updates.Subscribe(ctx)
}

// Close cancels in-flight work, stops the cache sweep, drops cached values and
// closes subscribers. It is idempotent.
func (l *Loader[K, T]) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.gen++
	l.cur.settle()
	if l.stopSweep != nil {
		l.stopSweep()
	}
	l.mu.Unlock()

	l.wg.Wait()
	if l.cache != nil {
		l.cache.Clear()
	}
	_ = l.updates.Close()
}

// Must be called with lock held.
func (l *Loader[K, T]) triggerLocked() {
	if l.closed || !l.enabled {
		return
	}

	l.cur.settle()
	l.gen++
	f := &flight{gen: l.gen, done: make(chan struct{})}
	l.cur = f
	key := l.key

	if l.cache != nil {
		if data, ok := l.cache.Get(key); ok {
			l.commitLocked(eventHit, func(s *State[T]) {
				s.Data = data
				s.Err = ""
			})
			l.dataKey, l.hasData = key, true
			f.settle()
			l.log.Debug("cache hit", logger.Key(key))
			return
		}
	}

	l.commitLocked(eventFetch, func(s *State[T]) { s.Err = "" })

	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel

	l.wg.Add(1)
	go l.run(ctx, f, key)
}

func (l *Loader[K, T]) run(ctx context.Context, f *flight, key K) {
	defer l.wg.Done()

	start := time.Now()
	data, err := async.Retry(ctx, l.cfg.retry,
		func(ctx context.Context, attempt int) (T, error) {
			return async.Async(ctx, key, l.producer).AwaitContext(ctx)
		},
		func(attempt int, err error) {
			l.log.Debug("fetch attempt failed, retrying",
				logger.Key(key), logger.Attempt(attempt), logger.Error(err))
		},
	)

	l.mu.Lock()
	if l.closed || l.cur != f || f.settled {
		l.mu.Unlock()
		l.log.Debug("discarding stale result", logger.Key(key))
		return
	}

	if err == nil {
		if l.cache != nil {
			l.cache.Put(key, data)
		}
		l.commitLocked(eventResolve, func(s *State[T]) {
			s.Data = data
			s.Err = ""
		})
		l.dataKey, l.hasData = key, true
	} else {
		msg := errorMessage(err, l.cfg.fallback)
		l.commitLocked(eventReject, func(s *State[T]) { s.Err = msg })
	}
	f.settle()
	l.mu.Unlock()

	if err == nil {
		l.log.Debug("fetch succeeded", logger.Key(key), logger.Duration(time.Since(start)))
		l.notifySuccess(key, data)
		return
	}
	l.log.Warn("fetch failed", logger.Key(key), logger.Duration(time.Since(start)), logger.Error(err))
	l.notifyError(key, err)
}

// commitLocked validates the transition, applies mutate and publishes the new
// state. Must be called with lock held.
func (l *Loader[K, T]) commitLocked(ev event, mutate func(*State[T])) {
	if err := l.machine.Fire(context.Background(), ev, nil); err != nil {
		l.log.Error("invalid status transition", logger.Status(string(l.state.Status)), logger.Error(err))
		return
	}

	next := l.state
	mutate(&next)
	next.Status = l.machine.Current()
	next.UpdatedAt = l.cfg.now()
	l.state = next

	_ = l.updates.Broadcast(context.Background(), broadcast.Message[State[T]]{Topic: l.cfg.name, Data: next})
}

func (l *Loader[K, T]) notifySuccess(key K, data T) {
	if l.cfg.onSuccess == nil {
		return
	}
	defer l.recoverCallback("onSuccess")
	l.cfg.onSuccess(key, data)
}

func (l *Loader[K, T]) notifyError(key K, err error) {
	if l.cfg.onError == nil {
		return
	}
	defer l.recoverCallback("onError")
	l.cfg.onError(key, err)
}

func (l *Loader[K, T]) recoverCallback(name string) {
	if r := recover(); r != nil {
		l.log.Error("callback panicked", slog.String("callback", name), slog.Any("panic", r))
	}
}
