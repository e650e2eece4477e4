package car

import (
	"container/list"
	"context"
	"sync"
)

// ArchiveCache is an ArchiveFetcher that keeps raw downloads in memory
// with least-recently-used eviction.
//
// SICAR downloads are slow and gated by a captcha, while the same
// registration is often processed several times with different options.
// Wrapping the real fetcher avoids repeating the download:
//
//	cache := car.NewArchiveCache(sicarFetcher, 256<<20) // 256MB
//	svc := car.NewService(cache, car.NewProcessor(), sink)
//
// Failed fetches are not cached.
type ArchiveCache struct {
	upstream ArchiveFetcher
	maxBytes int64 // 0 means unlimited
	used     int64
	entries  map[string]*cacheEntry
	lru      *list.List // most recent at front
	hits     int
	misses   int
	mu       sync.Mutex
}

type cacheEntry struct {
	code    string
	data    []byte
	element *list.Element
}

// NewArchiveCache wraps upstream with a cache holding up to maxBytes of
// archives. Archives larger than maxBytes are passed through uncached.
func NewArchiveCache(upstream ArchiveFetcher, maxBytes int64) *ArchiveCache {
	return &ArchiveCache{
		upstream: upstream,
		maxBytes: maxBytes,
		entries:  make(map[string]*cacheEntry),
		lru:      list.New(),
	}
}

// FetchArchive returns the cached archive of carCode, downloading it on a
// miss. The returned slice is shared and must not be modified.
func (c *ArchiveCache) FetchArchive(ctx context.Context, carCode string) ([]byte, error) {
	c.mu.Lock()
	if e, ok := c.entries[carCode]; ok {
		c.hits++
		c.lru.MoveToFront(e.element)
		c.mu.Unlock()
		return e.data, nil
	}
	c.misses++
	c.mu.Unlock()

	data, err := c.upstream.FetchArchive(ctx, carCode)
	if err != nil {
		return nil, err
	}
	c.add(carCode, data)
	return data, nil
}

func (c *ArchiveCache) add(code string, data []byte) {
	size := int64(len(data))

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[code]; ok {
		// concurrent miss on the same code
		c.used += size - int64(len(e.data))
		e.data = data
		c.lru.MoveToFront(e.element)
		return
	}
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	for c.maxBytes > 0 && c.used+size > c.maxBytes && c.lru.Len() > 0 {
		c.evictOldest()
	}

	e := &cacheEntry{code: code, data: data}
	e.element = c.lru.PushFront(e)
	c.entries[code] = e
	c.used += size
}

// Must be called with c.mu held.
func (c *ArchiveCache) evictOldest() {
	elem := c.lru.Back()
	if elem == nil {
		return
	}
	e := elem.Value.(*cacheEntry)
	c.lru.Remove(elem)
	delete(c.entries, e.code)
	c.used -= int64(len(e.data))
}

// Remove drops one registration from the cache.
func (c *ArchiveCache) Remove(carCode string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[carCode]; ok {
		c.lru.Remove(e.element)
		delete(c.entries, carCode)
		c.used -= int64(len(e.data))
	}
}

// Clear empties the cache. Hit and miss counters are kept.
func (c *ArchiveCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	c.lru.Init()
	c.used = 0
}

// CacheStats is a snapshot of an ArchiveCache.
type CacheStats struct {
	Archives  int   // archives currently cached
	UsedBytes int64 // sum of cached archive sizes
	MaxBytes  int64
	Hits      int
	Misses    int
}

// Stats returns the current cache statistics.
func (c *ArchiveCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return CacheStats{
		Archives:  len(c.entries),
		UsedBytes: c.used,
		MaxBytes:  c.maxBytes,
		Hits:      c.hits,
		Misses:    c.misses,
	}
}
