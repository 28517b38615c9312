// Package ttlcache provides the process-wide response cache shared by the
// provider services. Entries expire after a fixed TTL and are reaped lazily:
// the read that observes an expired entry deletes it. There is no background
// sweep, so memory is bounded only by the number of distinct keys requested
// within a TTL window.
package ttlcache

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value    any
	storedAt time.Time
}

// Cache is a mutex-guarded key/value store with a fixed time-to-live.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

// New returns an empty cache whose entries live for ttl.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the value stored under key, or false when the key is absent or
// its entry has outlived the TTL. An expired entry is deleted on the spot.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) >= c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key, unconditionally overwriting any previous entry
// and restamping its storage time.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry{value: value, storedAt: time.Now()}
}

// Key builds a cache key from its parts.
func Key(parts ...string) string {
	h := sha1.Sum([]byte(strings.Join(parts, ":")))
	return hex.EncodeToString(h[:])
}
