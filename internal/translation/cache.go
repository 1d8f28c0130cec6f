package translation

import (
	"container/list"
	"sync"
)

// DefaultCacheSize bounds the detect and translate caches when no size
// is configured.
const DefaultCacheSize = 128

// fifoCache is a fixed-capacity map that evicts the oldest inserted entry
// once full. Lookups never promote, so a frequently read key still ages
// out after the capacity has cycled past it; overwriting an existing key
// keeps its original position. Not an LRU on purpose: the point is to
// bound memory, not to chase hit rates.
type fifoCache[K comparable, V any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[K]*list.Element
	order    *list.List
}

type fifoEntry[K comparable, V any] struct {
	key   K
	value V
}

func newFIFOCache[K comparable, V any](capacity int) *fifoCache[K, V] {
	if capacity < 1 {
		capacity = DefaultCacheSize
	}
	return &fifoCache[K, V]{
		capacity: capacity,
		entries:  make(map[K]*list.Element, capacity),
		order:    list.New(),
	}
}

func (c *fifoCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return elem.Value.(*fifoEntry[K, V]).value, true
}

func (c *fifoCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		elem.Value.(*fifoEntry[K, V]).value = value
		return
	}

	c.entries[key] = c.order.PushBack(&fifoEntry[K, V]{key: key, value: value})
	if c.order.Len() > c.capacity {
		oldest := c.order.Front()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*fifoEntry[K, V]).key)
	}
}

func (c *fifoCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
