// ABOUTME: Tests for centralized configuration system
// ABOUTME: Verifies defaults, the TOML file layer, environment overrides and validation
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var configKeys = []string{
	"RECALL_CONFIG", "RECALL_DB_PATH", "RECALL_EMBEDDING_PROVIDER", "OPENAI_API_KEY",
	"RECALL_EMBEDDING_MODEL", "RECALL_EMBEDDING_BASE_URL", "OPENAI_TIMEOUT", "OPENAI_MAX_RETRIES",
	"OPENAI_RETRY_DELAY", "VECTOR_DIMENSION", "RECALL_CHUNK_SIZE", "RECALL_CHUNK_OVERLAP",
	"RECALL_CHUNK_THRESHOLD", "RECALL_CANDIDATE_CAP", "RECALL_DEFAULT_LIMIT", "RECALL_MAX_LIMIT",
	"RECALL_RELATED_KEYWORDS", "RECALL_BACKFILL_WORKERS", "RECALL_EMBEDDING_CACHE_SIZE",
	"RECALL_BREAKER_FAILURES", "RECALL_BREAKER_TIMEOUT",
}

// isolateEnv blanks every config variable and points XDG_CONFIG_HOME at an empty dir
func isolateEnv(t *testing.T) string {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeConfigFile(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "recall", "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Provider != ProviderOpenAI {
		t.Errorf("Provider = %s, want openai", cfg.Provider)
	}
	if cfg.EmbeddingModel != "text-embedding-3-small" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-small", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", cfg.RetryDelay)
	}
	if cfg.VectorDimension != 1536 {
		t.Errorf("VectorDimension = %d, want 1536", cfg.VectorDimension)
	}
	if cfg.ChunkSize != 1000 || cfg.ChunkOverlap != 200 || cfg.ChunkThreshold != 1500 {
		t.Errorf("chunking = %d/%d/%d, want 1000/200/1500", cfg.ChunkSize, cfg.ChunkOverlap, cfg.ChunkThreshold)
	}
	if cfg.CandidateCap != 1000 || cfg.DefaultLimit != 10 || cfg.MaxLimit != 100 {
		t.Errorf("retrieval = %d/%d/%d, want 1000/10/100", cfg.CandidateCap, cfg.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("ConfigFile = %q, want none", cfg.ConfigFile)
	}
	if cfg.EmbeddingsEnabled() {
		t.Error("EmbeddingsEnabled() should be false without an API key")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	isolateEnv(t)
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("RECALL_EMBEDDING_MODEL", "text-embedding-3-large")
	t.Setenv("OPENAI_TIMEOUT", "60s")
	t.Setenv("OPENAI_MAX_RETRIES", "5")
	t.Setenv("OPENAI_RETRY_DELAY", "3s")
	t.Setenv("VECTOR_DIMENSION", "3072")
	t.Setenv("RECALL_CHUNK_SIZE", "500")
	t.Setenv("RECALL_CHUNK_OVERLAP", "50")
	t.Setenv("RECALL_BACKFILL_WORKERS", "8")
	t.Setenv("RECALL_BREAKER_TIMEOUT", "1m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.OpenAIKey != "test-key" {
		t.Errorf("OpenAIKey = %s, want test-key", cfg.OpenAIKey)
	}
	if cfg.EmbeddingModel != "text-embedding-3-large" {
		t.Errorf("EmbeddingModel = %s, want text-embedding-3-large", cfg.EmbeddingModel)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout)
	}
	if cfg.MaxRetries != 5 {
		t.Errorf("MaxRetries = %d, want 5", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 3*time.Second {
		t.Errorf("RetryDelay = %v, want 3s", cfg.RetryDelay)
	}
	if cfg.VectorDimension != 3072 {
		t.Errorf("VectorDimension = %d, want 3072", cfg.VectorDimension)
	}
	if cfg.ChunkSize != 500 || cfg.ChunkOverlap != 50 {
		t.Errorf("chunking = %d/%d, want 500/50", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.BackfillWorkers != 8 {
		t.Errorf("BackfillWorkers = %d, want 8", cfg.BackfillWorkers)
	}
	if cfg.BreakerTimeout != time.Minute {
		t.Errorf("BreakerTimeout = %v, want 1m", cfg.BreakerTimeout)
	}
	if !cfg.EmbeddingsEnabled() {
		t.Error("EmbeddingsEnabled() should be true with an API key")
	}
}

func TestLoad_OtherModelHasNoImpliedDimension(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECALL_EMBEDDING_MODEL", "text-embedding-3-large")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.VectorDimension != 0 {
		t.Errorf("VectorDimension = %d, want 0 (unchecked)", cfg.VectorDimension)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := isolateEnv(t)
	path := writeConfigFile(t, dir, `
db_path = "/tmp/recall-test.db"

[embedding]
provider = "compatible"
base_url = "http://localhost:11434/v1"
model = "nomic-embed-text"
dimension = 768
max_retries = 0
retry_delay = "500ms"

[chunking]
size = 800
overlap = 0

[search]
default_limit = 20
max_limit = 50

[breaker]
failures = 3
timeout = "10s"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", cfg.ConfigFile, path)
	}
	if cfg.DBPath != "/tmp/recall-test.db" {
		t.Errorf("DBPath = %q", cfg.DBPath)
	}
	if cfg.Provider != ProviderCompatible || cfg.BaseURL != "http://localhost:11434/v1" {
		t.Errorf("provider = %q base = %q", cfg.Provider, cfg.BaseURL)
	}
	if cfg.EmbeddingModel != "nomic-embed-text" || cfg.VectorDimension != 768 {
		t.Errorf("model = %q dim = %d", cfg.EmbeddingModel, cfg.VectorDimension)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want explicit 0", cfg.MaxRetries)
	}
	if cfg.RetryDelay != 500*time.Millisecond {
		t.Errorf("RetryDelay = %v, want 500ms", cfg.RetryDelay)
	}
	if cfg.ChunkSize != 800 || cfg.ChunkOverlap != 0 {
		t.Errorf("chunking = %d/%d, want 800/0", cfg.ChunkSize, cfg.ChunkOverlap)
	}
	if cfg.DefaultLimit != 20 || cfg.MaxLimit != 50 {
		t.Errorf("limits = %d/%d, want 20/50", cfg.DefaultLimit, cfg.MaxLimit)
	}
	if cfg.BreakerFailures != 3 || cfg.BreakerTimeout != 10*time.Second {
		t.Errorf("breaker = %d/%v", cfg.BreakerFailures, cfg.BreakerTimeout)
	}
	if !cfg.EmbeddingsEnabled() {
		t.Error("compatible provider with a base URL should enable embeddings")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolateEnv(t)
	writeConfigFile(t, dir, `
[search]
default_limit = 20
`)
	t.Setenv("RECALL_DEFAULT_LIMIT", "7")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DefaultLimit != 7 {
		t.Errorf("DefaultLimit = %d, want env value 7", cfg.DefaultLimit)
	}
}

func TestLoad_ExplicitConfigMustExist(t *testing.T) {
	isolateEnv(t)
	t.Setenv("RECALL_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when RECALL_CONFIG points at a missing file")
	}
}

func TestLoad_BadConfigFile(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "[embedding\nprovider = ", "failed to parse"},
		{"duration", "[breaker]\ntimeout = \"soon\"", "breaker.timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolateEnv(t)
			writeConfigFile(t, dir, tt.body)

			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Provider = "magic" }},
		{"compatible without base url", func(c *Config) { c.Provider = ProviderCompatible }},
		{"retries above 10", func(c *Config) { c.MaxRetries = 15 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"overlap equals size", func(c *Config) { c.ChunkOverlap = c.ChunkSize }},
		{"negative overlap", func(c *Config) { c.ChunkOverlap = -1 }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"zero candidate cap", func(c *Config) { c.CandidateCap = 0 }},
		{"zero workers", func(c *Config) { c.BackfillWorkers = 0 }},
		{"default above max", func(c *Config) { c.DefaultLimit = c.MaxLimit + 1 }},
		{"negative dimension", func(c *Config) { c.VectorDimension = -1 }},
		{"negative cache", func(c *Config) { c.CacheSize = -1 }},
	}

	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "not-a-number")
	if got := getEnvInt("TEST_INT", 4); got != 4 {
		t.Errorf("getEnvInt() with garbage = %d, want default 4", got)
	}

	t.Setenv("TEST_DURATION", "90s")
	if got := getEnvDuration("TEST_DURATION", time.Second); got != 90*time.Second {
		t.Errorf("getEnvDuration() = %v, want 90s", got)
	}

	t.Setenv("TEST_STRING", "")
	if got := getEnv("TEST_STRING", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want fallback", got)
	}
}
