package diff

import (
	"sync"
	"time"

	"tablediff/core/dataset"

	"golang.org/x/sync/singleflight"
)

// datasetCacheTTL is how long a parsed bucket object stays cached.
const datasetCacheTTL = 5 * time.Minute

// datasetCache caches parsed bucket datasets keyed by object name, so
// repeated comparisons against the same object skip the fetch and parse.
type datasetCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	sf      singleflight.Group
	ttl     time.Duration
}

type cacheEntry struct {
	ds    *dataset.Dataset
	built time.Time
}

func newDatasetCache(ttl time.Duration) *datasetCache {
	return &datasetCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
}

func (c *datasetCache) expired(e *cacheEntry) bool {
	if c.ttl == 0 {
		return true // No caching
	}
	return time.Since(e.built) > c.ttl
}

// getOrLoad returns the cached dataset for key, or loads and caches it.
// Uses singleflight so concurrent requests for the same object trigger
// a single load.
func (c *datasetCache) getOrLoad(key string, load func() (*dataset.Dataset, error)) (*dataset.Dataset, error) {
	// Fast path: fresh entry exists
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && !c.expired(e) {
		return e.ds, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		c.mu.RLock()
		e, ok := c.entries[key]
		c.mu.RUnlock()

		if ok && !c.expired(e) {
			return e.ds, nil
		}

		ds, err := load()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = &cacheEntry{ds: ds, built: time.Now()}
		c.mu.Unlock()

		return ds, nil
	})
	if err != nil {
		return nil, err
	}

	return result.(*dataset.Dataset), nil
}

// invalidate removes the cached entry for key. This is useful for testing
// or forcing a reload.
func (c *datasetCache) invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}
