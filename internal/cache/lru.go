// Package cache provides a small bounded LRU with optional per-entry expiry.
// It backs the render cache, the OCR result cache and the recently-sent-image
// map, each with its own capacity and TTL.
package cache

import (
	"container/list"
	"sync"
	"time"
)

type entry struct {
	key     string
	value   interface{}
	expires time.Time
}

// LRU is a fixed-capacity least-recently-used cache. A zero TTL disables
// expiry. Safe for concurrent use.
type LRU struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List
	items    map[string]*list.Element
	now      func() time.Time
}

func NewLRU(capacity int, ttl time.Duration) *LRU {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value and refreshes its recency. Expired entries are
// evicted on access.
func (c *LRU) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := el.Value.(*entry)
	if c.ttl > 0 && c.now().After(ent.expires) {
		c.removeLocked(el)
		return nil, false
	}
	c.order.MoveToFront(el)
	return ent.value, true
}

// Add stores a value, evicting the least recently used entry when full.
func (c *LRU) Add(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry)
		ent.value = value
		if c.ttl > 0 {
			ent.expires = c.now().Add(c.ttl)
		}
		c.order.MoveToFront(el)
		return
	}

	ent := &entry{key: key, value: value}
	if c.ttl > 0 {
		ent.expires = c.now().Add(c.ttl)
	}
	c.items[key] = c.order.PushFront(ent)

	for c.order.Len() > c.capacity {
		c.removeLocked(c.order.Back())
	}
}

// Contains reports presence without refreshing recency.
func (c *LRU) Contains(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	if c.ttl > 0 && c.now().After(el.Value.(*entry).expires) {
		c.removeLocked(el)
		return false
	}
	return true
}

// Remove drops a key if present.
func (c *LRU) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.removeLocked(el)
	}
}

// Len reports the live entry count, counting not-yet-evicted expired entries.
func (c *LRU) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *LRU) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry).key)
}
