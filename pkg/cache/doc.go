// Package cache provides a generic, thread-safe in-memory cache with an
// optional time-to-live and an optional LRU capacity bound.
//
// Entries remember when they were stored. With a TTL configured, an entry is
// considered expired once now-StoredAt >= TTL; expired entries are dropped
// lazily when read and in bulk by Sweep (or by RunJanitor on a ticker).
// With a capacity configured, the least recently used entry is evicted when a
// new key would exceed it.
//
// # Usage
//
//	c := cache.New[string, []Item](cache.WithTTL(30*time.Second))
//	c.Put("cat-tech", items)
//	if items, ok := c.Get("cat-tech"); ok {
//		// live hit
//	}
//
//	go c.RunJanitor(ctx, 30*time.Second)
//
// # Eviction callbacks
//
// SetEvictCallback registers a function that receives every entry leaving the
// cache. It runs outside the internal lock, so it is safe to release resources
// held by the value (for example closing a per-session object):
//
//	sessions := cache.New[string, *Session](cache.WithCapacity(1000), cache.WithTTL(time.Hour))
//	sessions.SetEvictCallback(func(_ string, s *Session) { s.Close() })
package cache
