// ABOUTME: Resilient wrapper for any embedding gateway
// ABOUTME: Caches single-text vectors in an LRU and trips a circuit breaker on repeated failures
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sony/gobreaker"

	"github.com/harper/recall/internal/core"
)

const (
	// DefaultCacheSize is the number of query vectors kept in memory
	DefaultCacheSize = 256
	// DefaultBreakerFailures is the consecutive failure count that opens the breaker
	DefaultBreakerFailures = 5
	// DefaultBreakerTimeout is how long the breaker stays open before probing
	DefaultBreakerTimeout = 30 * time.Second
)

// ErrProviderUnavailable is returned while the breaker is open
var ErrProviderUnavailable = errors.New("embedding provider unavailable")

// Embedder is the gateway shape the wrapper decorates
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float64, error)
	GetBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error)
}

// ResilientConfig tunes the cache and breaker
type ResilientConfig struct {
	Name            string
	CacheSize       int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
	Logger          *slog.Logger
}

// ResilientGateway decorates an Embedder with a cache and a circuit breaker
type ResilientGateway struct {
	inner   Embedder
	cache   *lru.Cache[string, []float64]
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// NewResilientGateway wraps inner. A CacheSize of 0 or less disables caching.
func NewResilientGateway(inner Embedder, config ResilientConfig) (*ResilientGateway, error) {
	if inner == nil {
		return nil, fmt.Errorf("embedding gateway is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "resilient-gateway")

	g := &ResilientGateway{inner: inner, logger: logger}

	if config.CacheSize > 0 {
		cache, err := lru.New[string, []float64](config.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create embedding cache: %w", err)
		}
		g.cache = cache
	}

	name := config.Name
	if name == "" {
		name = "embeddings"
	}
	failures := config.BreakerFailures
	if failures == 0 {
		failures = DefaultBreakerFailures
	}
	timeout := config.BreakerTimeout
	if timeout <= 0 {
		timeout = DefaultBreakerTimeout
	}

	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// The caller giving up says nothing about the provider
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state change", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return g, nil
}

// GenerateEmbedding returns a cached vector or asks the provider through the breaker
func (g *ResilientGateway) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	if g.cache != nil {
		if vector, ok := g.cache.Get(text); ok {
			return cloneVector(vector), nil
		}
	}

	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.GenerateEmbedding(ctx, text)
	})
	if err != nil {
		return nil, g.translate(err)
	}

	vector, _ := result.([]float64)
	if g.cache != nil && len(vector) > 0 {
		g.cache.Add(text, cloneVector(vector))
	}
	return vector, nil
}

// GetBatchEmbeddings goes straight to the provider through the breaker; batches are not cached
func (g *ResilientGateway) GetBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	result, err := g.breaker.Execute(func() (interface{}, error) {
		return g.inner.GetBatchEmbeddings(ctx, texts)
	})
	if err != nil {
		return nil, g.translate(err)
	}
	vectors, _ := result.([][]float64)
	return vectors, nil
}

// ChunkText splits text into overlapping windows for per-chunk embedding.
// It runs locally and never touches the provider or the breaker.
func (g *ResilientGateway) ChunkText(text string, size, overlap int) ([]string, error) {
	return core.ChunkText(text, size, overlap)
}

// State reports the breaker state, for diagnostics
func (g *ResilientGateway) State() string {
	return g.breaker.State().String()
}

// CacheLen reports how many vectors are cached
func (g *ResilientGateway) CacheLen() int {
	if g.cache == nil {
		return 0
	}
	return g.cache.Len()
}

func (g *ResilientGateway) translate(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	return err
}

func cloneVector(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
