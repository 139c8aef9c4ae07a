package provider

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/ppiankov/propfacts/internal/cache"
	"github.com/ppiankov/propfacts/internal/logger"
	"github.com/ppiankov/propfacts/internal/model"
)

// scoper is implemented by providers whose results depend on settings
// beyond the query, such as result count or endpoint
type scoper interface {
	CacheScope() string
}

// Cached wraps a provider with a result cache keyed by provider settings
// and query
type Cached struct {
	inner Provider
	scope string
	cache cache.Cache
	ttl   time.Duration
}

// NewCached creates a caching decorator around inner
func NewCached(inner Provider, c cache.Cache, ttl time.Duration) *Cached {
	scope := inner.Name()
	if s, ok := inner.(scoper); ok {
		scope = scopeOf(inner.Name(), s.CacheScope())
	}
	return &Cached{inner: inner, scope: scope, cache: c, ttl: ttl}
}

func (c *Cached) Name() string {
	return c.inner.Name()
}

func (c *Cached) Fetch(ctx context.Context, query string) ([]model.SearchResult, error) {
	results, _, err := c.FetchCached(ctx, query)
	return results, err
}

// FetchCached returns results and whether they were served from the cache.
// Errors and empty result sets are never cached.
func (c *Cached) FetchCached(ctx context.Context, query string) ([]model.SearchResult, bool, error) {
	key := cache.Key(c.scope, query)

	if data, ok := c.cache.Get(key); ok {
		var results []model.SearchResult
		if err := json.Unmarshal(data, &results); err == nil {
			logger.Debug("search cache hit", "provider", c.inner.Name(), "query", query)
			return results, true, nil
		}
		logger.Warn("discarding unreadable cache entry", "provider", c.inner.Name())
		_ = c.cache.Delete(key)
	}

	results, err := c.inner.Fetch(ctx, query)
	if err != nil {
		return nil, false, err
	}

	if len(results) > 0 {
		data, err := json.Marshal(results)
		if err == nil {
			err = c.cache.Set(key, data, c.ttl)
		}
		if err != nil {
			logger.Warn("failed to cache search results", "provider", c.inner.Name(), "error", err)
		}
	}

	return results, false, nil
}

// scopeOf joins provider settings into a cache scope
func scopeOf(parts ...string) string {
	return strings.Join(parts, "|")
}
