package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"autodocstring/internal/docstring"
)

const minEntries = 8

// StyleCache remembers the docstring style detected for each buffer, so a
// run over many declarations of one file detects it once. It is safe for
// concurrent use.
type StyleCache struct {
	cache  *lru.LRU[string, docstring.Style]
	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache usage.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// NewStyleCache returns a cache holding up to size buffers for ttl each. A
// zero ttl keeps entries until they are evicted.
func NewStyleCache(size int, ttl time.Duration) *StyleCache {
	if size < minEntries {
		size = minEntries
	}
	return &StyleCache{
		cache: lru.NewLRU[string, docstring.Style](size, nil, ttl),
	}
}

// Get returns the style recorded for a buffer.
func (c *StyleCache) Get(bufferID string) (docstring.Style, bool) {
	style, ok := c.cache.Get(bufferID)
	if !ok {
		c.misses.Add(1)
		return 0, false
	}
	c.hits.Add(1)
	return style, true
}

// Set records the style of a buffer.
func (c *StyleCache) Set(bufferID string, style docstring.Style) {
	c.cache.Add(bufferID, style)
}

// Forget drops a buffer, for instance after its docstrings were converted.
func (c *StyleCache) Forget(bufferID string) {
	c.cache.Remove(bufferID)
}

func (c *StyleCache) Stats() Stats {
	return Stats{
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
		Entries: c.cache.Len(),
	}
}
