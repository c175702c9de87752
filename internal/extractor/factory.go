package extractor

import (
	"fmt"
	"os"
	"strings"
)

// Config holds extractor configuration
type Config struct {
	Provider  string
	RemoteURL string
	APIKey    string
	CacheSize int
}

// NewFromEnv creates an extractor based on environment variables.
// Priority:
// 1. PHRASERANK_PROVIDER (local, remote)
// 2. PHRASERANK_REMOTE_URL set => remote
// 3. Default to local
func NewFromEnv() (Extractor, error) {
	provider := os.Getenv(EnvProvider)
	remoteURL := os.Getenv(EnvRemoteURL)
	apiKey := os.Getenv(EnvAPIKey)

	cache := NewCache(10000) // Default cache size

	// Explicit provider selection
	if provider != "" {
		provider = strings.ToLower(provider)
		switch provider {
		case ProviderLocal:
			return NewLocalProvider(cache)
		case ProviderRemote:
			return NewRemoteProvider(remoteURL, apiKey, cache)
		default:
			return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedProvider, provider)
		}
	}

	// Auto-detect: a configured remote endpoint wins
	if remoteURL != "" {
		return NewRemoteProvider(remoteURL, apiKey, cache)
	}

	return NewLocalProvider(cache)
}

// New creates an extractor with explicit configuration
func New(cfg Config) (Extractor, error) {
	var cache *Cache
	if cfg.CacheSize > 0 {
		cache = NewCache(cfg.CacheSize)
	}

	provider := strings.ToLower(cfg.Provider)
	switch provider {
	case ProviderLocal, "":
		return NewLocalProvider(cache)
	case ProviderRemote:
		return NewRemoteProvider(cfg.RemoteURL, cfg.APIKey, cache)
	default:
		return nil, fmt.Errorf("%w: unknown provider %s", ErrUnsupportedProvider, cfg.Provider)
	}
}

// DetectProvider returns the provider that would be used based on current environment
func DetectProvider() string {
	provider := os.Getenv(EnvProvider)
	if provider != "" {
		return strings.ToLower(provider)
	}

	if os.Getenv(EnvRemoteURL) != "" {
		return ProviderRemote
	}

	return ProviderLocal
}
