// Package cache provides caching utilities for the MCP server.
package cache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/usestring/find-flights-mcp/pkg/duffel"
)

// DefaultTTL is how long a search result stays fresh.
const DefaultTTL = 300 * time.Second

type offerEntry struct {
	result   *duffel.OfferRequestResult
	storedAt time.Time
}

// OfferCache is a thread-safe LRU cache of search results keyed by
// duffel.CacheKey. Entries older than the TTL are never returned; they are
// left in place until overwritten or pushed out by newer entries.
type OfferCache struct {
	cache *lru.Cache[string, offerEntry]
	ttl   time.Duration
	now   func() time.Time
}

// OfferCacheOption configures an OfferCache.
type OfferCacheOption func(*OfferCache)

// WithClock replaces the wall clock, for tests.
func WithClock(now func() time.Time) OfferCacheOption {
	return func(c *OfferCache) {
		c.now = now
	}
}

// NewOfferCache creates a cache holding at most maxItems results for ttl each.
// A non-positive ttl uses DefaultTTL.
func NewOfferCache(maxItems int, ttl time.Duration, opts ...OfferCacheOption) (*OfferCache, error) {
	c, err := lru.New[string, offerEntry](maxItems)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	oc := &OfferCache{cache: c, ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(oc)
	}
	return oc, nil
}

// Get returns the result stored under key if it is younger than the TTL.
func (c *OfferCache) Get(key string) (*duffel.OfferRequestResult, bool) {
	e, ok := c.cache.Get(key)
	if !ok {
		return nil, false
	}
	if c.now().Sub(e.storedAt) >= c.ttl {
		return nil, false
	}
	return e.result, true
}

// Put stores result under key, replacing any previous entry and its age.
func (c *OfferCache) Put(key string, result *duffel.OfferRequestResult) {
	c.cache.Add(key, offerEntry{result: result, storedAt: c.now()})
}

// Len returns the number of stored entries, expired ones included.
func (c *OfferCache) Len() int {
	return c.cache.Len()
}

// TTL returns the freshness window.
func (c *OfferCache) TTL() time.Duration {
	return c.ttl
}

var _ duffel.Cache = (*OfferCache)(nil)
