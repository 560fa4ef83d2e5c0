package llm

import (
	"sync"
	"time"

	"github.com/Veraticus/physician-notetaker/internal/classify"
)

const defaultCacheTTL = 15 * time.Minute

// cacheEntry represents a cached classification.
type cacheEntry struct {
	expiry time.Time
	result classify.Result
}

// resultCache provides thread-safe caching of classifications keyed by table
// and text. Expired entries are dropped when they are next looked up or when
// a write finds the cache over its sweep threshold.
type resultCache struct {
	entries map[string]cacheEntry
	now     func() time.Time
	ttl     time.Duration
	sweepAt int
	mu      sync.RWMutex
}

func newResultCache(ttl time.Duration) *resultCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &resultCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
		ttl:     ttl,
		sweepAt: 1024,
	}
}

func cacheKey(table, text string) string {
	return table + "\x00" + text
}

// get returns a copy of the cached result if present and fresh.
func (c *resultCache) get(key string) (classify.Result, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return classify.Result{}, false
	}
	if c.now().After(entry.expiry) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return classify.Result{}, false
	}
	return cloneResult(entry.result), true
}

func (c *resultCache) set(key string, result classify.Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if len(c.entries) >= c.sweepAt {
		for k, e := range c.entries {
			if now.After(e.expiry) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[key] = cacheEntry{
		result: cloneResult(result),
		expiry: now.Add(c.ttl),
	}
}

func (c *resultCache) size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// cloneResult copies the slices of r so callers cannot mutate cached state.
func cloneResult(r classify.Result) classify.Result {
	r.Secondary = append([]string{}, r.Secondary...)
	r.Evidence = append([]string{}, r.Evidence...)
	if r.Scores != nil {
		r.Scores = append([]classify.Score(nil), r.Scores...)
	}
	return r
}
