// Package cache provides LRU caching for parsed documents.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/OpenITI/oimdp/core/ir"
	"github.com/OpenITI/oimdp/core/parser"
)

// Cache is a generic LRU cache interface.
type Cache[K comparable, V any] interface {
	// Get retrieves a value from the cache.
	Get(key K) (V, bool)

	// Put stores a value in the cache.
	Put(key K, value V)

	// Remove removes a value from the cache.
	Remove(key K)

	// RemoveOldest evicts the least recently used entry.
	// It reports false if the cache is empty.
	RemoveOldest() bool

	// Clear removes all entries from the cache.
	Clear()

	// Len returns the number of entries in the cache.
	Len() int

	// Stats returns cache statistics.
	Stats() Stats
}

// Stats contains cache statistics.
type Stats struct {
	Hits       int64 `json:"hits"`
	Misses     int64 `json:"misses"`
	Evictions  int64 `json:"evictions"`
	Size       int   `json:"size"`
	MaxSize    int   `json:"max_size"`
	TotalBytes int64 `json:"total_bytes"`
}

// Config contains cache configuration options.
type Config struct {
	// MaxSize is the maximum number of entries (0 = unlimited).
	MaxSize int

	// TTL is the time-to-live for entries (0 = no expiration).
	TTL time.Duration

	// OnEvict is called when an entry is removed or its value replaced,
	// with the cache lock held.
	OnEvict func(key, value any)
}

// DefaultConfig returns a default cache configuration.
func DefaultConfig() Config {
	return Config{
		MaxSize: 100,
	}
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time
}

// lruCache is a thread-safe LRU cache implementation.
type lruCache[K comparable, V any] struct {
	mu        sync.Mutex
	config    Config
	entries   map[K]*list.Element
	evictList *list.List
	stats     Stats
}

// NewLRUCache creates a new LRU cache with the given configuration.
func NewLRUCache[K comparable, V any](config Config) Cache[K, V] {
	if config.MaxSize < 0 {
		config.MaxSize = 0
	}
	return &lruCache[K, V]{
		config:    config,
		entries:   make(map[K]*list.Element),
		evictList: list.New(),
	}
}

func (c *lruCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	ent, ok := c.entries[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}

	e := ent.Value.(*entry[K, V])
	if c.config.TTL > 0 && time.Now().After(e.expiresAt) {
		c.removeElement(ent)
		c.stats.Misses++
		return zero, false
	}

	c.evictList.MoveToFront(ent)
	c.stats.Hits++
	return e.value, true
}

func (c *lruCache[K, V]) Put(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.evictList.MoveToFront(ent)
		e := ent.Value.(*entry[K, V])
		if c.config.OnEvict != nil {
			c.config.OnEvict(e.key, e.value)
		}
		e.value = value
		if c.config.TTL > 0 {
			e.expiresAt = time.Now().Add(c.config.TTL)
		}
		return
	}

	e := &entry[K, V]{key: key, value: value}
	if c.config.TTL > 0 {
		e.expiresAt = time.Now().Add(c.config.TTL)
	}
	c.entries[key] = c.evictList.PushFront(e)

	if c.config.MaxSize > 0 && c.evictList.Len() > c.config.MaxSize {
		c.removeOldest()
	}
}

func (c *lruCache[K, V]) Remove(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ent, ok := c.entries[key]; ok {
		c.removeElement(ent)
	}
}

func (c *lruCache[K, V]) RemoveOldest() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.removeOldest()
}

func (c *lruCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.config.OnEvict != nil {
		for ent := c.evictList.Front(); ent != nil; ent = ent.Next() {
			e := ent.Value.(*entry[K, V])
			c.config.OnEvict(e.key, e.value)
		}
	}
	c.entries = make(map[K]*list.Element)
	c.evictList.Init()
}

func (c *lruCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evictList.Len()
}

func (c *lruCache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = c.evictList.Len()
	s.MaxSize = c.config.MaxSize
	return s
}

func (c *lruCache[K, V]) removeOldest() bool {
	ent := c.evictList.Back()
	if ent == nil {
		return false
	}
	c.removeElement(ent)
	c.stats.Evictions++
	return true
}

func (c *lruCache[K, V]) removeElement(ent *list.Element) {
	c.evictList.Remove(ent)
	e := ent.Value.(*entry[K, V])
	delete(c.entries, e.key)

	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value)
	}
}

// DocumentCache holds parsed documents keyed by the SHA-256 of their
// source text, bounded by entry count and total source bytes.
//
// Documents are shared between callers and must not be modified. A cache
// should only be used with one set of parser options.
type DocumentCache struct {
	mu       sync.Mutex
	lru      Cache[string, *ir.Document]
	maxBytes int64
	bytes    int64
}

// NewDocumentCache creates a cache holding at most maxEntries documents and
// maxBytes of source text. Zero means unlimited.
func NewDocumentCache(maxEntries int, maxBytes int64) *DocumentCache {
	c := &DocumentCache{maxBytes: maxBytes}
	c.lru = NewLRUCache[string, *ir.Document](Config{
		MaxSize: maxEntries,
		OnEvict: func(_, value any) {
			c.bytes -= sizeOf(value.(*ir.Document))
		},
	})
	return c
}

// Key returns the cache key for a source text.
func Key(text string) string {
	return ir.HashBytes([]byte(text))
}

// Get returns the cached document parsed from text.
func (c *DocumentCache) Get(text string) (*ir.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Get(Key(text))
}

// Put caches doc under the key of its source text. Documents larger than
// the byte limit are not cached.
func (c *DocumentCache) Put(doc *ir.Document) {
	size := sizeOf(doc)
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}
	c.lru.Put(Key(doc.OrigText), doc)
	c.bytes += size
	for c.maxBytes > 0 && c.bytes > c.maxBytes {
		if !c.lru.RemoveOldest() {
			break
		}
	}
}

// Parse returns the cached document for text, parsing and caching it on a
// miss. hit reports whether the document came from the cache.
func (c *DocumentCache) Parse(text string, opts ...parser.Option) (doc *ir.Document, hit bool, err error) {
	if doc, ok := c.Get(text); ok {
		return doc, true, nil
	}
	doc, err = parser.Parse(text, opts...)
	if err != nil {
		return nil, false, err
	}
	c.Put(doc)
	return doc, false, nil
}

// Len returns the number of cached documents.
func (c *DocumentCache) Len() int {
	return c.lru.Len()
}

// Clear removes all documents.
func (c *DocumentCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Clear()
}

// Stats returns cache statistics including source bytes held.
func (c *DocumentCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.lru.Stats()
	s.TotalBytes = c.bytes
	return s
}

func sizeOf(doc *ir.Document) int64 {
	if doc == nil {
		return 0
	}
	return int64(len(doc.OrigText))
}
