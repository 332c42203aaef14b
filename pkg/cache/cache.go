// Package cache memoizes lookups in a bounded LRU.
package cache

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
)

type LookupResult[V any] struct {
	Value V
	Hit   bool
}

// Cache is safe for concurrent use. Concurrent misses on the same key may
// each call the resolve function.
type Cache[K comparable, V any] struct {
	cache       *lru.Cache[K, V]
	resolveFunc func(K) V
	evicted     atomic.Int64
}

func New[K comparable, V any](resolveFunc func(K) V, size int) (*Cache[K, V], error) {
	this := &Cache[K, V]{resolveFunc: resolveFunc}
	var err error
	this.cache, err = lru.NewWithEvict[K, V](size, func(K, V) {
		this.evicted.Add(1)
	})
	if err != nil {
		return nil, err
	}
	return this, nil
}

func (c *Cache[K, V]) Lookup(key K) LookupResult[V] {
	if v, ok := c.cache.Get(key); ok {
		return LookupResult[V]{Value: v, Hit: true}
	}
	v := c.resolveFunc(key)
	c.cache.Add(key, v)
	return LookupResult[V]{Value: v}
}

func (c *Cache[K, V]) Len() int { return c.cache.Len() }

func (c *Cache[K, V]) TotalEvicted() int { return int(c.evicted.Load()) }
