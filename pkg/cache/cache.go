package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// Entry is a cached value together with the moment it was stored.
type Entry[V any] struct {
	Value    V
	StoredAt time.Time
}

type element[K comparable, V any] struct {
	key   K
	entry Entry[V]
}

// Cache is a thread-safe in-memory cache with optional time-to-live and
// optional LRU capacity bound.
//
// Expired entries are evicted lazily on access and in bulk by Sweep.
// When the capacity is exceeded the least recently used entry is evicted.
type Cache[K comparable, V any] struct {
	capacity int
	ttl      time.Duration
	now      func() time.Time
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
	onEvict  func(key K, value V)
}

// New creates a cache. Without options it is unbounded and never expires.
func New[K comparable, V any](opts ...Option) *Cache[K, V] {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Cache[K, V]{
		capacity: cfg.capacity,
		ttl:      cfg.ttl,
		now:      cfg.now,
		items:    make(map[K]*list.Element),
		order:    list.New(),
	}
}

// SetEvictCallback registers fn to be called for every entry that leaves the
// cache through expiry, capacity pressure, Remove or Clear.
// Callbacks run after the cache lock is released, so fn may use the cache.
func (c *Cache[K, V]) SetEvictCallback(fn func(key K, value V)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
}

// TTL returns the configured time-to-live. Zero means entries never expire.
func (c *Cache[K, V]) TTL() time.Duration {
	return c.ttl
}

// Get returns a live value and marks it as recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	entry, ok := c.Entry(key)
	return entry.Value, ok
}

// Entry returns a live entry with its storage timestamp.
// An expired entry is removed and reported as missing.
func (c *Cache[K, V]) Entry(key K) (Entry[V], bool) {
	c.mu.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		return Entry[V]{}, false
	}

	el := elem.Value.(*element[K, V])
	if c.expired(el.entry, c.now()) {
		evicted := c.removeElement(elem)
		c.mu.Unlock()
		c.notify(evicted)
		return Entry[V]{}, false
	}

	c.order.MoveToFront(elem)
	entry := el.entry
	c.mu.Unlock()
	return entry, true
}

// Put stores value under key with the current timestamp.
// It returns the previous value if one was present.
func (c *Cache[K, V]) Put(key K, value V) (V, bool) {
	c.mu.Lock()

	entry := Entry[V]{Value: value, StoredAt: c.now()}

	if elem, ok := c.items[key]; ok {
		el := elem.Value.(*element[K, V])
		old := el.entry.Value
		el.entry = entry
		c.order.MoveToFront(elem)
		c.mu.Unlock()
		return old, true
	}

	c.items[key] = c.order.PushFront(&element[K, V]{key: key, entry: entry})

	var evicted []*element[K, V]
	if c.capacity > 0 && c.order.Len() > c.capacity {
		if back := c.order.Back(); back != nil {
			evicted = append(evicted, c.removeElement(back))
		}
	}
	c.mu.Unlock()

	c.notify(evicted...)

	var zero V
	return zero, false
}

// Remove deletes key and returns its value if it was present.
func (c *Cache[K, V]) Remove(key K) (V, bool) {
	c.mu.Lock()

	elem, ok := c.items[key]
	if !ok {
		c.mu.Unlock()
		var zero V
		return zero, false
	}

	evicted := c.removeElement(elem)
	c.mu.Unlock()

	c.notify(evicted)
	return evicted.entry.Value, true
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Clear removes all entries.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()

	evicted := make([]*element[K, V], 0, len(c.items))
	for _, elem := range c.items {
		evicted = append(evicted, elem.Value.(*element[K, V]))
	}
	c.items = make(map[K]*list.Element)
	c.order.Init()
	c.mu.Unlock()

	c.notify(evicted...)
}

// Sweep removes every expired entry and returns how many were removed.
// It is a no-op for caches without a TTL.
func (c *Cache[K, V]) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}

	c.mu.Lock()
	now := c.now()
	var evicted []*element[K, V]
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if el := elem.Value.(*element[K, V]); c.expired(el.entry, now) {
			evicted = append(evicted, c.removeElement(elem))
		}
		elem = prev
	}
	c.mu.Unlock()

	c.notify(evicted...)
	return len(evicted)
}

// RunJanitor calls Sweep every interval until ctx is done.
// It blocks, so callers normally start it in a goroutine.
func (c *Cache[K, V]) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Sweep()
		}
	}
}

func (c *Cache[K, V]) expired(entry Entry[V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(entry.StoredAt) >= c.ttl
}

// Must be called with lock held.
func (c *Cache[K, V]) removeElement(elem *list.Element) *element[K, V] {
	c.order.Remove(elem)
	el := elem.Value.(*element[K, V])
	delete(c.items, el.key)
	return el
}

// Must be called without the lock.
func (c *Cache[K, V]) notify(evicted ...*element[K, V]) {
	if len(evicted) == 0 {
		return
	}

	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()

	if fn == nil {
		return
	}
	for _, el := range evicted {
		fn(el.key, el.entry.Value)
	}
}
