package dictionary

import (
	"container/list"
	"sync"
)

// DefaultCacheCapacity bounds the response cache to the last hundred
// distinct successful requests.
const DefaultCacheCapacity = 100

// Cache is a fixed-capacity response cache evicting in insertion order.
// It is deliberately not an LRU: a Get never postpones eviction, so the
// surviving entries are always the most recently inserted ones.
type Cache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[Query]*list.Element
	hits     uint64
	misses   uint64
}

type cacheEntry struct {
	key     Query
	article Article
}

// CacheStats is a lifetime counter snapshot.
type CacheStats struct {
	Hits     uint64
	Misses   uint64
	Size     int
	Capacity int
}

func NewCache(capacity int) *Cache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &Cache{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[Query]*list.Element),
	}
}

// Get returns the cached article for the key. The entry's position in
// the eviction order is left untouched.
func (c *Cache) Get(key Query) (Article, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	element, ok := c.entries[key]
	if !ok {
		c.misses++
		return Article{}, false
	}
	c.hits++
	return element.Value.(*cacheEntry).article, true
}

// Put inserts the article under the key, evicting the oldest entry when
// the capacity is exceeded. Re-putting an existing key replaces the
// article but keeps the original insertion position.
func (c *Cache) Put(key Query, article Article) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if element, ok := c.entries[key]; ok {
		element.Value.(*cacheEntry).article = article
		return
	}
	c.entries[key] = c.order.PushBack(&cacheEntry{key: key, article: article})
	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}

func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return CacheStats{
		Hits:     c.hits,
		Misses:   c.misses,
		Size:     c.order.Len(),
		Capacity: c.capacity,
	}
}
