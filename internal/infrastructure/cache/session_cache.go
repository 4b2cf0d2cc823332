package cache

import (
	"sync"
	"time"
)

// DefaultIdleTTL is how long an untouched entry stays cached
const DefaultIdleTTL = 30 * time.Minute

// cacheEntry holds a cached value and the time it was last touched
type cacheEntry[V any] struct {
	value    V
	lastSeen time.Time
}

// SessionCache is a thread-safe in-memory cache whose entries expire
// after a period without reads or writes
type SessionCache[V any] struct {
	entries map[string]cacheEntry[V]
	idleTTL time.Duration
	now     func() time.Time
	mutex   sync.RWMutex
}

// NewSessionCache creates a cache; a non-positive ttl uses DefaultIdleTTL
func NewSessionCache[V any](idleTTL time.Duration) *SessionCache[V] {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}

	return &SessionCache[V]{
		entries: make(map[string]cacheEntry[V]),
		idleTTL: idleTTL,
		now:     time.Now,
	}
}

// Get returns the value for key and refreshes its idle timer.
// Expired entries are reported as missing.
func (c *SessionCache[V]) Get(key string) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	var zero V
	entry, exists := c.entries[key]
	if !exists {
		return zero, false
	}

	now := c.now()
	if now.Sub(entry.lastSeen) > c.idleTTL {
		delete(c.entries, key)
		return zero, false
	}

	entry.lastSeen = now
	c.entries[key] = entry
	return entry.value, true
}

// Put stores value under key
func (c *SessionCache[V]) Put(key string, value V) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = cacheEntry[V]{
		value:    value,
		lastSeen: c.now(),
	}
}

// Delete removes key and reports whether it was present
func (c *SessionCache[V]) Delete(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, exists := c.entries[key]
	delete(c.entries, key)
	return exists
}

// Size returns the number of entries, expired or not
func (c *SessionCache[V]) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.entries)
}

// CleanExpired removes idle entries and returns how many were removed
func (c *SessionCache[V]) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := c.now()

	for key, entry := range c.entries {
		if now.Sub(entry.lastSeen) > c.idleTTL {
			delete(c.entries, key)
			count++
		}
	}

	return count
}
