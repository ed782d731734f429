package metadata

import (
	"strings"
	"sync"
	"time"

	"cinefile/internal/metadata/tmdb"
)

type searchCacheEntry struct {
	resp    *tmdb.SearchResponse
	expires time.Time
}

const defaultSearchCacheEntries = 2048

// searchCache holds successful search responses until they expire. A zero TTL
// disables caching. At most maxEntries are kept; expired entries are swept
// when an insert finds the cache full.
type searchCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	entries    map[string]searchCacheEntry
}

func newSearchCache(ttl time.Duration) *searchCache {
	return &searchCache{
		ttl:        ttl,
		maxEntries: defaultSearchCacheEntries,
		now:        time.Now,
		entries:    make(map[string]searchCacheEntry),
	}
}

func searchCacheKey(title string, opts tmdb.SearchOptions) string {
	return strings.ToLower(strings.TrimSpace(title)) + "|" + opts.CacheKey()
}

func (c *searchCache) get(key string) (*tmdb.SearchResponse, bool) {
	if c == nil || c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.resp, true
}

func (c *searchCache) put(key string, resp *tmdb.SearchResponse) {
	if c == nil || c.ttl <= 0 || resp == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictLocked(now)
	}
	c.entries[key] = searchCacheEntry{resp: resp, expires: now.Add(c.ttl)}
}

// evictLocked drops expired entries, then the one closest to expiry if the
// cache is still full.
func (c *searchCache) evictLocked(now time.Time) {
	var soonestKey string
	var soonest time.Time
	for key, entry := range c.entries {
		if !now.Before(entry.expires) {
			delete(c.entries, key)
			continue
		}
		if soonestKey == "" || entry.expires.Before(soonest) {
			soonestKey, soonest = key, entry.expires
		}
	}
	if len(c.entries) >= c.maxEntries && soonestKey != "" {
		delete(c.entries, soonestKey)
	}
}

func (c *searchCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
