package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache defines the interface for caching search results
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key generates a cache key for a provider and query. Queries that differ
// only in case or surrounding whitespace share a key.
func Key(provider, query string) string {
	normalized := strings.ToLower(strings.Join(strings.Fields(query), " "))
	hash := sha256.Sum256([]byte(provider + "\x00" + normalized))
	return "propfacts:v1:" + hex.EncodeToString(hash[:])
}
