// Package cache wraps a ristretto in-process cache for derived read models.
// Keys are tracked per owner so that any write to a user's expenses can drop
// every cached aggregate for that user in one call.
package cache

import (
	"sync"

	"github.com/dgraph-io/ristretto"
)

type Cache struct {
	c *ristretto.Cache

	mu        sync.Mutex
	ownerKeys map[string]map[string]struct{}
}

func New() (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10000, // number of keys to track frequency of
		MaxCost:     10000,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{
		c:         c,
		ownerKeys: make(map[string]map[string]struct{}),
	}, nil
}

func (c *Cache) Get(key string) (interface{}, bool) {
	return c.c.Get(key)
}

// Set stores a value under key and records the key against its owner for
// later invalidation.
func (c *Cache) Set(owner, key string, value interface{}) {
	c.mu.Lock()
	keys, ok := c.ownerKeys[owner]
	if !ok {
		keys = make(map[string]struct{})
		c.ownerKeys[owner] = keys
	}
	keys[key] = struct{}{}
	c.mu.Unlock()

	c.c.Set(key, value, 1)
}

// InvalidateOwner drops every key recorded for the owner.
func (c *Cache) InvalidateOwner(owner string) {
	c.mu.Lock()
	keys := c.ownerKeys[owner]
	delete(c.ownerKeys, owner)
	c.mu.Unlock()

	for key := range keys {
		c.c.Del(key)
	}
}
