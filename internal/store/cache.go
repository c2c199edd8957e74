package store

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aweris/gitcas/internal/object"
)

// Cache keeps recently decoded objects in memory.
type Cache interface {
	Get(hash string) (CachedObject, bool)
	Add(hash string, obj CachedObject)
	Has(hash string) bool
	Remove(hash string)
	Purge()
}

// CachedObject is a decoded object held in a Cache.
type CachedObject struct {
	Type    object.Type
	Payload []byte
}

// LRUCache is a bounded, concurrency-safe Cache.
type LRUCache struct {
	lru *lru.Cache[string, CachedObject]
}

// NewLRUCache creates a cache holding up to size objects.
func NewLRUCache(size int) (*LRUCache, error) {
	c, err := lru.New[string, CachedObject](size)
	if err != nil {
		return nil, err
	}
	return &LRUCache{lru: c}, nil
}

func (c *LRUCache) Get(hash string) (CachedObject, bool) { return c.lru.Get(hash) }
func (c *LRUCache) Add(hash string, obj CachedObject)    { c.lru.Add(hash, obj) }
func (c *LRUCache) Has(hash string) bool                 { return c.lru.Contains(hash) }
func (c *LRUCache) Remove(hash string)                   { c.lru.Remove(hash) }
func (c *LRUCache) Purge()                               { c.lru.Purge() }

// nopCache is used when caching is disabled.
type nopCache struct{}

func (nopCache) Get(string) (CachedObject, bool) { return CachedObject{}, false }
func (nopCache) Add(string, CachedObject)        {}
func (nopCache) Has(string) bool                 { return false }
func (nopCache) Remove(string)                   {}
func (nopCache) Purge()                          {}
