// ABOUTME: Tests for the caching, circuit-breaking gateway wrapper
// ABOUTME: Uses a scripted embedder to drive cache hits and breaker trips
package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedEmbedder struct {
	mu      sync.Mutex
	err     error
	singles int
	batches int
}

func (s *scriptedEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.singles++
	if s.err != nil {
		return nil, s.err
	}
	return []float64{float64(len(text)), 1}, nil
}

func (s *scriptedEmbedder) GetBatchEmbeddings(ctx context.Context, texts []string) ([][]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches++
	if s.err != nil {
		return nil, s.err
	}
	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = []float64{float64(len(text)), 1}
	}
	return out, nil
}

func (s *scriptedEmbedder) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func TestResilientGatewayRequiresInner(t *testing.T) {
	_, err := NewResilientGateway(nil, ResilientConfig{})
	assert.Error(t, err)
}

func TestResilientGatewayCachesSingleEmbeddings(t *testing.T) {
	inner := &scriptedEmbedder{}
	gateway, err := NewResilientGateway(inner, ResilientConfig{CacheSize: 2})
	require.NoError(t, err)

	ctx := context.Background()
	first, err := gateway.GenerateEmbedding(ctx, "query")
	require.NoError(t, err)

	// mutating the returned slice must not poison the cache
	first[0] = 99

	second, err := gateway.GenerateEmbedding(ctx, "query")
	require.NoError(t, err)
	assert.Equal(t, []float64{5, 1}, second)
	assert.Equal(t, 1, inner.singles)
	assert.Equal(t, 1, gateway.CacheLen())

	_, _ = gateway.GenerateEmbedding(ctx, "b")
	_, _ = gateway.GenerateEmbedding(ctx, "c")
	assert.Equal(t, 2, gateway.CacheLen(), "cache is bounded")
}

func TestResilientGatewayBatchesBypassCache(t *testing.T) {
	inner := &scriptedEmbedder{}
	gateway, err := NewResilientGateway(inner, ResilientConfig{CacheSize: 8})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		vectors, err := gateway.GetBatchEmbeddings(ctx, []string{"a", "bb"})
		require.NoError(t, err)
		assert.Len(t, vectors, 2)
	}
	assert.Equal(t, 2, inner.batches)
	assert.Equal(t, 0, gateway.CacheLen())
}

func TestResilientGatewayOpensAfterFailures(t *testing.T) {
	inner := &scriptedEmbedder{}
	inner.fail(errors.New("provider down"))

	gateway, err := NewResilientGateway(inner, ResilientConfig{
		BreakerFailures: 2,
		BreakerTimeout:  time.Hour,
	})
	require.NoError(t, err)

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, err := gateway.GenerateEmbedding(ctx, "q")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrProviderUnavailable)
	}
	assert.Equal(t, "open", gateway.State())

	inner.fail(nil)
	_, err = gateway.GenerateEmbedding(ctx, "q")
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	_, err = gateway.GetBatchEmbeddings(ctx, []string{"q"})
	assert.ErrorIs(t, err, ErrProviderUnavailable)
	assert.Equal(t, 2, inner.singles, "an open breaker must not reach the provider")
}

func TestResilientGatewayRecoversAfterTimeout(t *testing.T) {
	inner := &scriptedEmbedder{}
	inner.fail(errors.New("provider down"))

	gateway, err := NewResilientGateway(inner, ResilientConfig{
		BreakerFailures: 1,
		BreakerTimeout:  20 * time.Millisecond,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, err = gateway.GenerateEmbedding(ctx, "q")
	require.Error(t, err)
	assert.Equal(t, "open", gateway.State())

	inner.fail(nil)
	require.Eventually(t, func() bool {
		_, err := gateway.GenerateEmbedding(ctx, "q")
		return err == nil
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, "closed", gateway.State())
}

func TestResilientGatewayIgnoresCallerCancellation(t *testing.T) {
	inner := &scriptedEmbedder{}
	inner.fail(context.Canceled)

	gateway, err := NewResilientGateway(inner, ResilientConfig{BreakerFailures: 1})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := gateway.GenerateEmbedding(context.Background(), "q")
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, "closed", gateway.State())
}

func TestResilientGatewayChunkText(t *testing.T) {
	inner := &scriptedEmbedder{}
	gateway, err := NewResilientGateway(inner, ResilientConfig{BreakerFailures: 1})
	require.NoError(t, err)

	// an open breaker must not block local chunking
	inner.fail(errors.New("provider down"))
	_, err = gateway.GenerateEmbedding(context.Background(), "x")
	require.Error(t, err)
	require.Equal(t, "open", gateway.State())

	chunks, err := gateway.ChunkText("abcdefghij", 4, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcd", "cdef", "efgh", "ghij"}, chunks)
	assert.Equal(t, 0, inner.batches)

	_, err = gateway.ChunkText("abc", 2, 2)
	assert.Error(t, err, "overlap must be smaller than size")
}
