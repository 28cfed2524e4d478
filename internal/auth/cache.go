package auth

import "sync"

// DefaultCacheSize is the default capacity of the shape cache.
const DefaultCacheSize = 100

// cacheKeyLen is how much of the key is used as the cache key. Storing only
// a prefix keeps full credentials out of memory longer than necessary.
const cacheKeyLen = 20

// ShapeCache is a bounded in-memory cache of shape-validation results,
// keyed by the first 20 characters of the API key. When the cache is full
// the oldest half of the entries is dropped.
type ShapeCache struct {
	mu      sync.Mutex
	entries map[string]error
	order   []string
	maxSize int
}

// NewShapeCache creates a ShapeCache with the given capacity.
// Non-positive sizes fall back to DefaultCacheSize.
func NewShapeCache(maxSize int) *ShapeCache {
	if maxSize <= 0 {
		maxSize = DefaultCacheSize
	}
	return &ShapeCache{
		entries: make(map[string]error, maxSize),
		maxSize: maxSize,
	}
}

func cacheKey(apiKey string) string {
	if len(apiKey) >= cacheKeyLen {
		return apiKey[:cacheKeyLen]
	}
	return apiKey
}

// Get returns the cached validation result for the key.
// The second return value reports whether an entry was present.
func (c *ShapeCache) Get(apiKey string) (error, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	result, ok := c.entries[cacheKey(apiKey)]
	return result, ok
}

// Set stores a validation result. A nil result marks the key shape as valid.
func (c *ShapeCache) Set(apiKey string, result error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		// Drop the oldest half to make room.
		drop := c.order[:c.maxSize/2]
		for _, k := range drop {
			delete(c.entries, k)
		}
		c.order = append([]string(nil), c.order[c.maxSize/2:]...)
	}

	key := cacheKey(apiKey)
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = result
}

// Validate checks the key shape, consulting the cache first.
func (c *ShapeCache) Validate(apiKey string) error {
	if result, ok := c.Get(apiKey); ok {
		return result
	}
	result := ValidateKeyShape(apiKey)
	c.Set(apiKey, result)
	return result
}

// Clear removes all entries.
func (c *ShapeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]error, c.maxSize)
	c.order = nil
}

// Len returns the number of cached entries.
func (c *ShapeCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
