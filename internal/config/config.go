// ABOUTME: Centralized configuration for the recall engine, CLI and MCP server
// ABOUTME: Loads an optional TOML file, then environment variables, with validation and defaults
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
)

// Embedding providers
const (
	ProviderOpenAI     = "openai"
	ProviderCompatible = "compatible"
	ProviderNone       = "none"
)

const (
	// DefaultOpenAIModel is used when the openai provider has no model configured
	DefaultOpenAIModel = "text-embedding-3-small"
	// DefaultOpenAIDimension is the vector size of text-embedding-3-small
	DefaultOpenAIDimension = 1536
)

// Config holds all configuration for the recall system
type Config struct {
	// Storage settings
	DBPath string

	// Embedding settings
	Provider       string
	OpenAIKey      string
	EmbeddingModel string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	// VectorDimension 0 means the provider default: 1536 for openai, unchecked otherwise
	VectorDimension int

	// Chunking settings
	ChunkSize      int
	ChunkOverlap   int
	ChunkThreshold int

	// Retrieval settings
	CandidateCap    int
	DefaultLimit    int
	MaxLimit        int
	RelatedKeywords int
	BackfillWorkers int

	// Gateway resilience
	CacheSize       int
	BreakerFailures int
	BreakerTimeout  time.Duration

	// ConfigFile is the TOML file that was read, if any
	ConfigFile string
}

// fileConfig mirrors config.toml; zero values mean "not set"
type fileConfig struct {
	DBPath    string `toml:"db_path"`
	Embedding struct {
		Provider   string `toml:"provider"`
		APIKey     string `toml:"api_key"`
		Model      string `toml:"model"`
		BaseURL    string `toml:"base_url"`
		Dimension  int    `toml:"dimension"`
		Timeout    string `toml:"timeout"`
		MaxRetries *int   `toml:"max_retries"`
		RetryDelay string `toml:"retry_delay"`
		CacheSize  *int   `toml:"cache_size"`
	} `toml:"embedding"`
	Chunking struct {
		Size      int  `toml:"size"`
		Overlap   *int `toml:"overlap"`
		Threshold int  `toml:"threshold"`
	} `toml:"chunking"`
	Search struct {
		CandidateCap    int `toml:"candidate_cap"`
		DefaultLimit    int `toml:"default_limit"`
		MaxLimit        int `toml:"max_limit"`
		RelatedKeywords int `toml:"related_keywords"`
	} `toml:"search"`
	Backfill struct {
		Workers int `toml:"workers"`
	} `toml:"backfill"`
	Breaker struct {
		Failures int    `toml:"failures"`
		Timeout  string `toml:"timeout"`
	} `toml:"breaker"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryDelay:      2 * time.Second,
		ChunkSize:       1000,
		ChunkOverlap:    200,
		ChunkThreshold:  1500,
		CandidateCap:    1000,
		DefaultLimit:    10,
		MaxLimit:        100,
		RelatedKeywords: 5,
		BackfillWorkers: 4,
		CacheSize:       256,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Load reads the config file (if present) and then environment variables
func Load() (*Config, error) {
	cfg := Default()

	path, explicit := configFilePath()
	if err := cfg.applyFile(path, explicit); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	cfg.resolve()

	return cfg, cfg.Validate()
}

// DefaultConfigFile returns $XDG_CONFIG_HOME/recall/config.toml.
// XDG_CONFIG_HOME is read at call time so tests can redirect it.
func DefaultConfigFile() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "recall", "config.toml")
}

func configFilePath() (string, bool) {
	if p := os.Getenv("RECALL_CONFIG"); p != "" {
		return p, true
	}
	return DefaultConfigFile(), false
}

func (c *Config) applyFile(path string, explicit bool) error {
	raw, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.ConfigFile = path

	setString(&c.DBPath, fc.DBPath)
	setString(&c.Provider, fc.Embedding.Provider)
	setString(&c.OpenAIKey, fc.Embedding.APIKey)
	setString(&c.EmbeddingModel, fc.Embedding.Model)
	setString(&c.BaseURL, fc.Embedding.BaseURL)
	setInt(&c.VectorDimension, fc.Embedding.Dimension)
	if fc.Embedding.MaxRetries != nil {
		c.MaxRetries = *fc.Embedding.MaxRetries
	}
	if fc.Embedding.CacheSize != nil {
		c.CacheSize = *fc.Embedding.CacheSize
	}

	setInt(&c.ChunkSize, fc.Chunking.Size)
	if fc.Chunking.Overlap != nil {
		c.ChunkOverlap = *fc.Chunking.Overlap
	}
	setInt(&c.ChunkThreshold, fc.Chunking.Threshold)
	setInt(&c.CandidateCap, fc.Search.CandidateCap)
	setInt(&c.DefaultLimit, fc.Search.DefaultLimit)
	setInt(&c.MaxLimit, fc.Search.MaxLimit)
	setInt(&c.RelatedKeywords, fc.Search.RelatedKeywords)
	setInt(&c.BackfillWorkers, fc.Backfill.Workers)
	setInt(&c.BreakerFailures, fc.Breaker.Failures)

	durations := []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"embedding.timeout", fc.Embedding.Timeout, &c.Timeout},
		{"embedding.retry_delay", fc.Embedding.RetryDelay, &c.RetryDelay},
		{"breaker.timeout", fc.Breaker.Timeout, &c.BreakerTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("config file %s: %s: %w", path, d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("RECALL_DB_PATH", c.DBPath)
	c.Provider = getEnv("RECALL_EMBEDDING_PROVIDER", c.Provider)
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.EmbeddingModel = getEnv("RECALL_EMBEDDING_MODEL", c.EmbeddingModel)
	c.BaseURL = getEnv("RECALL_EMBEDDING_BASE_URL", c.BaseURL)
	c.Timeout = getEnvDuration("OPENAI_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("OPENAI_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("OPENAI_RETRY_DELAY", c.RetryDelay)
	c.VectorDimension = getEnvInt("VECTOR_DIMENSION", c.VectorDimension)
	c.ChunkSize = getEnvInt("RECALL_CHUNK_SIZE", c.ChunkSize)
	c.ChunkOverlap = getEnvInt("RECALL_CHUNK_OVERLAP", c.ChunkOverlap)
	c.ChunkThreshold = getEnvInt("RECALL_CHUNK_THRESHOLD", c.ChunkThreshold)
	c.CandidateCap = getEnvInt("RECALL_CANDIDATE_CAP", c.CandidateCap)
	c.DefaultLimit = getEnvInt("RECALL_DEFAULT_LIMIT", c.DefaultLimit)
	c.MaxLimit = getEnvInt("RECALL_MAX_LIMIT", c.MaxLimit)
	c.RelatedKeywords = getEnvInt("RECALL_RELATED_KEYWORDS", c.RelatedKeywords)
	c.BackfillWorkers = getEnvInt("RECALL_BACKFILL_WORKERS", c.BackfillWorkers)
	c.CacheSize = getEnvInt("RECALL_EMBEDDING_CACHE_SIZE", c.CacheSize)
	c.BreakerFailures = getEnvInt("RECALL_BREAKER_FAILURES", c.BreakerFailures)
	c.BreakerTimeout = getEnvDuration("RECALL_BREAKER_TIMEOUT", c.BreakerTimeout)
}

// resolve fills provider-dependent defaults
func (c *Config) resolve() {
	if c.Provider != ProviderOpenAI {
		return
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = DefaultOpenAIModel
	}
	if c.VectorDimension == 0 && c.EmbeddingModel == DefaultOpenAIModel {
		c.VectorDimension = DefaultOpenAIDimension
	}
}

// EmbeddingsEnabled reports whether a gateway can be built from this config
func (c *Config) EmbeddingsEnabled() bool {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIKey != ""
	case ProviderCompatible:
		return c.BaseURL != ""
	default:
		return false
	}
}

// Validate checks ranges and cross-field constraints
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI, ProviderNone:
	case ProviderCompatible:
		if c.BaseURL == "" {
			return fmt.Errorf("RECALL_EMBEDDING_BASE_URL is required for the compatible provider")
		}
	default:
		return fmt.Errorf("RECALL_EMBEDDING_PROVIDER must be openai, compatible or none, got %q", c.Provider)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("OPENAI_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.VectorDimension < 0 {
		return fmt.Errorf("VECTOR_DIMENSION must not be negative, got %d", c.VectorDimension)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("RECALL_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("RECALL_CHUNK_OVERLAP must be 0 to chunk size-1, got %d", c.ChunkOverlap)
	}
	positives := []struct {
		key string
		val int
	}{
		{"RECALL_CHUNK_THRESHOLD", c.ChunkThreshold},
		{"RECALL_CANDIDATE_CAP", c.CandidateCap},
		{"RECALL_DEFAULT_LIMIT", c.DefaultLimit},
		{"RECALL_MAX_LIMIT", c.MaxLimit},
		{"RECALL_RELATED_KEYWORDS", c.RelatedKeywords},
		{"RECALL_BACKFILL_WORKERS", c.BackfillWorkers},
		{"RECALL_BREAKER_FAILURES", c.BreakerFailures},
	}
	for _, p := range positives {
		if p.val <= 0 {
			return fmt.Errorf("%s must be positive, got %d", p.key, p.val)
		}
	}
	if c.DefaultLimit > c.MaxLimit {
		return fmt.Errorf("RECALL_DEFAULT_LIMIT (%d) must not exceed RECALL_MAX_LIMIT (%d)", c.DefaultLimit, c.MaxLimit)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("RECALL_EMBEDDING_CACHE_SIZE must not be negative, got %d", c.CacheSize)
	}
	return nil
}

// Helper functions
func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
