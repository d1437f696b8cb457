// Package cache provides the bounded block cache the lookup engine consults
// before decompressing a keyword or record block from disk.
package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Section distinguishes the two block populations a dictionary caches, so
// that a keyword block and a record block with the same ordinal are separate
// entries. Both sections share one capacity: a run of keyword-block lookups
// can evict record blocks, and vice versa.
type Section uint8

const (
	SectionKeyword Section = iota
	SectionRecord
)

// Key identifies one decompressed block by its section and ordinal position
// among blocks of that section.
type Key struct {
	Section Section
	Ordinal int
}

// DefaultCapacity is the number of decompressed blocks retained per
// dictionary when the caller doesn't override it via dict.WithCacheSize. A
// capacity of 1 reproduces a single last-block slot exactly.
const DefaultCapacity = 4

// BlockCache is a bounded, mutex-guarded LRU of decompressed block payloads,
// safe for concurrent lookups sharing one dictionary handle.
type BlockCache struct {
	mu  sync.Mutex
	lru *lru.Cache[Key, []byte]
}

// New returns a BlockCache holding at most capacity entries. capacity <= 0
// is treated as DefaultCapacity.
func New(capacity int) *BlockCache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	l, _ := lru.New[Key, []byte](capacity)

	return &BlockCache{lru: l}
}

// Get returns the cached payload for key, if present.
func (c *BlockCache) Get(key Key) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Get(key)
}

// Put stores payload under key, evicting the least-recently-used entry of
// either section if the cache is full.
func (c *BlockCache) Put(key Key, payload []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Add(key, payload)
}

// Len returns the number of entries currently cached, for tests.
func (c *BlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lru.Len()
}
