package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/kodhane/mevra/internal/model"
)

// Cache defines the interface for caching. It is the only state shared across
// concurrent requests; writes to a key are last-writer-wins.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// SearchKey builds the cache key for one merged search page. The key folds in
// the normalized query, the filter set and the page window so distinct
// requests never collide.
func SearchKey(normalizedQuery string, filters model.Filters, page, perPage int) string {
	return hashKey(fmt.Sprintf("search|%s|%s|%d|%d", normalizedQuery, filters.Kind, page, perPage))
}

// DetailKey builds the cache key for a resolved catalog item.
func DetailKey(id string) string {
	return hashKey("detail|" + id)
}

// ArtifactKey builds the cache key for an item's artifact candidates.
func ArtifactKey(id string) string {
	return hashKey("artifact|" + id)
}

// LiveKey builds the cache key for raw live-fetch content, discriminated by
// source so different strategies' output never aliases.
func LiveKey(normalizedQuery, source string) string {
	return hashKey("live|" + source + "|" + normalizedQuery)
}

func hashKey(s string) string {
	hash := sha256.Sum256([]byte(strings.ToLower(s)))
	return "mevra:v1:" + hex.EncodeToString(hash[:])
}
