package whatsapp

import (
	"sync"
	"time"
)

// dedupeCache remembers recently seen webhook message ids so redelivered
// notifications are dropped instead of dispatched twice. Entries expire
// after ttl; the map is swept lazily on insert once it grows past
// sweepThreshold.
type dedupeCache struct {
	mu        sync.Mutex
	ttl       time.Duration
	seen      map[string]time.Time
	lastSweep time.Time
}

const dedupeSweepThreshold = 1024

func newDedupeCache(ttl time.Duration) *dedupeCache {
	return &dedupeCache{
		ttl:       ttl,
		seen:      make(map[string]time.Time),
		lastSweep: time.Now(),
	}
}

// Seen reports whether id was recorded within the ttl window and records it
// either way.
func (d *dedupeCache) Seen(id string) bool {
	now := time.Now()

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.seen) > dedupeSweepThreshold && now.Sub(d.lastSweep) > d.ttl {
		for k, t := range d.seen {
			if now.Sub(t) > d.ttl {
				delete(d.seen, k)
			}
		}
		d.lastSweep = now
	}

	t, ok := d.seen[id]
	d.seen[id] = now
	return ok && now.Sub(t) <= d.ttl
}
