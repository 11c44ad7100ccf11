// Package respcache is a small in-process cache for upstream batch responses,
// keyed by the requested identifier set. It is not a general purpose cache:
// there is no size bound and no eviction beyond TTL because the key space is
// the finite set of tracked batches.
package respcache

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

type Options struct {
	// TTL defaults to one hour.
	TTL time.Duration
	// Now exists so tests can inject a fake clock.
	Now func() time.Time
}

func New(opts Options) *Cache {
	if opts.TTL == 0 {
		opts.TTL = time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Cache{
		entries: map[string]entry{},
		ttl:     opts.TTL,
		now:     opts.Now,
	}
}

// Key canonicalizes an identifier set: {A,B} and {B,A} map to the same entry.
func Key(ids []string) string {
	sorted := make([]string, len(ids))
	copy(sorted, ids)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

// Get returns the cached payload for the id set, or ok=false on a miss.
// Expired entries count as misses; they are left in place rather than
// evicted since Put overwrites them anyway.
func (c *Cache) Get(ids []string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[Key(ids)]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Put(ids []string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[Key(ids)] = entry{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	}
}
