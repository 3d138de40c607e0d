package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a size-bounded cache with a sliding TTL: every hit pushes the
// entry's expiry forward.
type LRUCache[T any] struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	lru     *list.List
	onEvict func(key string, data T)
	now     func() time.Time
}

var _ Cache[int] = (*LRUCache[int])(nil)

type cacheItem[T any] struct {
	key       string
	data      T
	expiresAt time.Time
}

// NewLRUCache creates a new LRU cache with TTL
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache[T]{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// OnEvict sets a callback run for every entry leaving the cache, whether by
// expiry, capacity, Delete or replacement. It runs outside the cache lock.
func (c *LRUCache[T]) OnEvict(fn func(key string, data T)) *LRUCache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvict = fn
	return c
}

func (c *LRUCache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	var zero T
	elem, exists := c.items[key]
	if !exists {
		c.mu.Unlock()
		return zero, false
	}

	item := elem.Value.(*cacheItem[T])
	now := c.now()
	if now.After(item.expiresAt) {
		evicted := c.removeElement(elem)
		c.mu.Unlock()
		c.notify(evicted)
		return zero, false
	}

	item.expiresAt = now.Add(c.ttl)
	c.lru.MoveToFront(elem)
	c.mu.Unlock()
	return item.data, true
}

func (c *LRUCache[T]) GetOrCreate(key string, create func() T) T {
	c.mu.Lock()
	var evicted []*cacheItem[T]
	now := c.now()

	if elem, exists := c.items[key]; exists {
		item := elem.Value.(*cacheItem[T])
		if !now.After(item.expiresAt) {
			item.expiresAt = now.Add(c.ttl)
			c.lru.MoveToFront(elem)
			c.mu.Unlock()
			return item.data
		}
		evicted = append(evicted, c.removeElement(elem))
	}

	data := create()
	evicted = append(evicted, c.insert(key, data, now)...)
	c.mu.Unlock()
	c.notify(evicted...)
	return data
}

func (c *LRUCache[T]) Set(key string, data T) {
	c.mu.Lock()
	var evicted []*cacheItem[T]
	if elem, exists := c.items[key]; exists {
		evicted = append(evicted, c.removeElement(elem))
	}
	evicted = append(evicted, c.insert(key, data, c.now())...)
	c.mu.Unlock()
	c.notify(evicted...)
}

func (c *LRUCache[T]) Delete(key string) {
	c.mu.Lock()
	var evicted *cacheItem[T]
	if elem, exists := c.items[key]; exists {
		evicted = c.removeElement(elem)
	}
	c.mu.Unlock()
	if evicted != nil {
		c.notify(evicted)
	}
}

// insert adds a new entry and returns whatever capacity pushed out.
func (c *LRUCache[T]) insert(key string, data T, now time.Time) []*cacheItem[T] {
	elem := c.lru.PushFront(&cacheItem[T]{key: key, data: data, expiresAt: now.Add(c.ttl)})
	c.items[key] = elem

	var evicted []*cacheItem[T]
	for c.lru.Len() > c.maxSize {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		evicted = append(evicted, c.removeElement(oldest))
	}
	return evicted
}

func (c *LRUCache[T]) removeElement(elem *list.Element) *cacheItem[T] {
	item := elem.Value.(*cacheItem[T])
	delete(c.items, item.key)
	c.lru.Remove(elem)
	return item
}

func (c *LRUCache[T]) notify(items ...*cacheItem[T]) {
	c.mu.Lock()
	fn := c.onEvict
	c.mu.Unlock()
	if fn == nil {
		return
	}
	for _, item := range items {
		fn(item.key, item.data)
	}
}

// CleanExpired removes all expired entries and returns count of removed items
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	now := c.now()
	var evicted []*cacheItem[T]
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		if now.After(elem.Value.(*cacheItem[T]).expiresAt) {
			evicted = append(evicted, c.removeElement(elem))
		}
		elem = next
	}
	c.mu.Unlock()

	c.notify(evicted...)
	return len(evicted)
}

// Purge removes every entry, running the evict callback for each.
func (c *LRUCache[T]) Purge() {
	c.mu.Lock()
	var evicted []*cacheItem[T]
	for elem := c.lru.Front(); elem != nil; {
		next := elem.Next()
		evicted = append(evicted, c.removeElement(elem))
		elem = next
	}
	c.mu.Unlock()
	c.notify(evicted...)
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
