package extractor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Common errors
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrProviderFailed      = errors.New("extraction provider failed")
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrResultCountMismatch = errors.New("extractor result count does not match input count")
	ErrNoProviderEnabled   = errors.New("no extraction provider configured")
)

// Phrase is a single key phrase extracted from one document.
// Rank is a relevance score in a provider-defined range; it is only
// meaningful for ordering phrases within the same document. Count is the
// number of occurrences within the source document.
type Phrase struct {
	Text  string
	Rank  float64
	Count int
}

// PhraseList holds the phrases of exactly one document, ordered by
// descending rank as produced by the provider. Lists are never merged
// across documents.
type PhraseList []Phrase

// Extractor is the phrase-extraction capability. Extract scores every
// document in texts and returns one PhraseList per input, in input order;
// the output length always equals the input length. Providers pre-sort
// each list by descending rank.
type Extractor interface {
	Extract(ctx context.Context, texts []string) ([]PhraseList, error)

	// Provider returns the provider name.
	Provider() string

	// Close releases any resources held by the extractor.
	Close() error
}

// Cache provides in-memory LRU caching of phrase lists by content hash
type Cache struct {
	cache *lru.Cache[string, PhraseList]
}

// NewCache creates a new extraction cache with LRU eviction
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 10000 // Default: cache 10k documents
	}
	cache, err := lru.New[string, PhraseList](maxLen)
	if err != nil {
		// Should never happen with positive size, but fallback to default
		cache, _ = lru.New[string, PhraseList](10000)
	}
	return &Cache{
		cache: cache,
	}
}

// Get retrieves a copy of a phrase list from cache.
// Returns a copy to prevent caller mutations from affecting cached values.
func (c *Cache) Get(hash string) (PhraseList, bool) {
	phrases, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}

	out := make(PhraseList, len(phrases))
	copy(out, phrases)
	return out, true
}

// Set stores a phrase list in cache with automatic LRU eviction
func (c *Cache) Set(hash string, phrases PhraseList) {
	c.cache.Add(hash, phrases)
}

// Size returns the current cache size
func (c *Cache) Size() int {
	return c.cache.Len()
}

// Clear empties the cache
func (c *Cache) Clear() {
	c.cache.Purge()
}

// ComputeHash computes SHA-256 hash of text for caching
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}

// ValidateBatch validates the input to Extract. Individual documents may
// be empty (an empty document simply yields an empty PhraseList), but the
// batch itself must contain at least one document.
func ValidateBatch(texts []string) error {
	if len(texts) == 0 {
		return fmt.Errorf("%w: no documents provided", ErrInvalidInput)
	}
	return nil
}
