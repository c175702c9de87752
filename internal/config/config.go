// Package config loads the YAML run configuration. Every field has a
// working default, so a missing file or an empty document still yields a
// usable configuration; only explicitly invalid values are rejected.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps all validation failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// ExtractorConfig selects and configures the phrase-extraction provider.
type ExtractorConfig struct {
	Provider  string `yaml:"provider"`
	RemoteURL string `yaml:"remote_url"`
	// APIKeyEnv names the environment variable holding the remote API key,
	// so the key itself never lives in the config file.
	APIKeyEnv string `yaml:"api_key_env"`
	CacheSize int    `yaml:"cache_size"`
}

// RunConfig mirrors the dispatcher options.
type RunConfig struct {
	InputPath   string `yaml:"input_path"`
	OutputPath  string `yaml:"output_path"`
	Recursive   bool   `yaml:"recursive"`
	InputSuffix string `yaml:"input_suffix"`
	PhraseLimit int    `yaml:"phrase_limit"`
	BatchSize   int    `yaml:"batch_size"`
}

// Config is the root configuration structure.
type Config struct {
	Run       RunConfig       `yaml:"run"`
	Extractor ExtractorConfig `yaml:"extractor"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Run: RunConfig{
			InputSuffix: ".txt",
		},
		Extractor: ExtractorConfig{
			Provider:  "local",
			CacheSize: 10000,
		},
	}
}

// Load reads path, layers it over the defaults, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints. Paths are not required here because
// flags may supply them after loading.
func (c *Config) Validate() error {
	if c.Run.BatchSize < 0 {
		return fmt.Errorf("%w: batch_size must not be negative, got %d", ErrInvalidConfig, c.Run.BatchSize)
	}
	if c.Run.PhraseLimit < 0 {
		return fmt.Errorf("%w: phrase_limit must not be negative, got %d", ErrInvalidConfig, c.Run.PhraseLimit)
	}
	if c.Run.InputSuffix != "" && !strings.HasPrefix(c.Run.InputSuffix, ".") {
		return fmt.Errorf("%w: input_suffix must start with a dot, got %q", ErrInvalidConfig, c.Run.InputSuffix)
	}
	if c.Extractor.Provider == "remote" && c.Extractor.RemoteURL == "" {
		return fmt.Errorf("%w: remote provider requires remote_url", ErrInvalidConfig)
	}
	if c.Extractor.CacheSize < 0 {
		return fmt.Errorf("%w: cache_size must not be negative, got %d", ErrInvalidConfig, c.Extractor.CacheSize)
	}
	return nil
}

// APIKey resolves the remote API key from the configured environment
// variable. Empty when unset.
func (c *Config) APIKey() string {
	if c.Extractor.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Extractor.APIKeyEnv)
}
