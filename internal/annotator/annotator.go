package annotator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/avandersen/prosecheck/pkg/types"
)

// Common errors
var (
	ErrNoProvider      = errors.New("no annotator provider configured")
	ErrUnknownProvider = errors.New("unknown annotator provider")
	ErrMissingAPIKey   = errors.New("api key not set")
	ErrEmptyText       = errors.New("chunk text cannot be empty")
	ErrRequestFailed   = errors.New("annotator request failed")
	ErrEmptyResponse   = errors.New("annotator returned no content")
	ErrMalformedOutput = errors.New("annotator output is not valid JSON")
)

// DefaultCacheSize bounds the in-memory correction cache.
const DefaultCacheSize = 1024

// Annotator produces raw corrections for a masked chunk. Reported offsets
// point into MaskedText and are untrusted until resolved against the
// original document.
type Annotator interface {
	// Annotate returns zero or more corrections for the chunk
	Annotate(ctx context.Context, pc types.ProcessedChunk) ([]types.RawCorrection, error)

	// Name returns the provider name used in logs and metrics
	Name() string

	// Close releases any resources held by the annotator
	Close() error
}

// Cache provides in-memory LRU caching of corrections by request hash
type Cache struct {
	cache *lru.Cache[string, []types.RawCorrection]
}

// NewCache creates a correction cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	cache, err := lru.New[string, []types.RawCorrection](maxLen)
	if err != nil {
		// Should never happen with positive size, but fallback to default
		cache, _ = lru.New[string, []types.RawCorrection](DefaultCacheSize)
	}
	return &Cache{
		cache: cache,
	}
}

// Get retrieves a copy of the cached corrections for a request hash.
// Returns a copy to prevent caller mutations from affecting cached values.
func (c *Cache) Get(hash string) ([]types.RawCorrection, bool) {
	raws, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	out := make([]types.RawCorrection, len(raws))
	copy(out, raws)
	return out, true
}

// Set stores corrections in cache with automatic LRU eviction
func (c *Cache) Set(hash string, raws []types.RawCorrection) {
	c.cache.Add(hash, raws)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes the cache key for one provider request. The provider
// and model are part of the key so switching models never serves stale
// corrections.
func ComputeHash(provider, model, text string) string {
	h := sha256.Sum256([]byte(provider + "\x00" + model + "\x00" + text))
	return hex.EncodeToString(h[:])
}

// CloseAll closes every annotator in the set, keeping the first error.
func CloseAll(anns []Annotator) error {
	var firstErr error
	for _, a := range anns {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
