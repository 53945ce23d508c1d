/*

In-process result cache keyed by the identity digest. One instance lives for
the process lifetime and is shared by every concurrent request handler, so
all access goes through the lock. Expired entries are never served: they are
evicted on the access that finds them, and a background sweep clears entries
no request touches again.

*/

package state

import (
	"sync"
	"time"

	"github.com/h34ter/cryptogreed/internal/logger"
	"github.com/h34ter/cryptogreed/internal/types"
)

var cacheLogger = logger.GetForComponent("result_cache")

const sweepInterval = time.Minute

type cacheEntry struct {
	value   types.AnalysisResult
	expires time.Time
}

// ResultCache memoizes analysis results with TTL eviction.
type ResultCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
	stopCh  chan struct{}

	// clock is swappable in tests.
	clock func() time.Time
}

// NewResultCache creates a cache whose entries expire after ttl and starts
// the background sweep. Close must be called to stop the sweep goroutine.
func NewResultCache(ttl time.Duration) *ResultCache {
	c := &ResultCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
		clock:   time.Now,
	}
	go c.sweepLoop()
	return c
}

// Get returns the cached result for key if present and not expired. An
// expired entry is evicted on the spot.
func (c *ResultCache) Get(key string) (types.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, exists := c.entries[key]
	if !exists {
		return types.AnalysisResult{}, false
	}
	if !c.clock().Before(entry.expires) {
		delete(c.entries, key)
		return types.AnalysisResult{}, false
	}
	return entry.value, true
}

// Put stores a result under key with the cache's TTL.
func (c *ResultCache) Put(key string, value types.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		value:   value,
		expires: c.clock().Add(c.ttl),
	}
}

// Len reports the number of physically present entries, expired or not.
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Close stops the background sweep goroutine.
func (c *ResultCache) Close() {
	close(c.stopCh)
}

func (c *ResultCache) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

func (c *ResultCache) sweep() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock()
	removed := 0
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			removed++
		}
	}
	if removed > 0 {
		cacheLogger.Debug().
			Int("removed", removed).
			Int("remaining", len(c.entries)).
			Msg("Swept expired cache entries")
	}
}
