package geocode

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// cacheKey returns SHA-256 hex of the normalized address.
func cacheKey(addr AddressInput) string {
	normalized := fmt.Sprintf("%s|%s|%s|%s",
		strings.ToLower(strings.TrimSpace(addr.Street)),
		strings.ToLower(strings.TrimSpace(addr.City)),
		strings.ToLower(strings.TrimSpace(addr.State)),
		strings.TrimSpace(addr.ZipCode),
	)
	h := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", h)
}

// memoryCache holds successful results for the lifetime of the client.
// Only matches are cached; failures stay retryable.
type memoryCache struct {
	mu      sync.Mutex
	results map[string]*Result
}

func newMemoryCache() *memoryCache {
	return &memoryCache{results: make(map[string]*Result)}
}

func (c *memoryCache) get(addr AddressInput) (*Result, bool) {
	key := cacheKey(addr)
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[key]
	if ok {
		zap.L().Debug("geocode cache hit", zap.String("key", key[:12]))
	}
	return r, ok
}

func (c *memoryCache) put(addr AddressInput, r *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results[cacheKey(addr)] = r
}
