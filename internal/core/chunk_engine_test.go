// ABOUTME: Tests for sliding-window chunking and chunk embedding pairing
// ABOUTME: Verifies window bounds, exact overlap, reconstruction and dropped vectors

package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkText_WindowsAndOverlap(t *testing.T) {
	var b strings.Builder
	for i := 0; b.Len() < 4321; i++ {
		b.WriteString("word")
		b.WriteByte(byte('a' + i%26))
		b.WriteByte(' ')
	}
	text := b.String()

	chunks, err := ChunkText(text, 1000, 200)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 1000, "chunk %d too long", i)
	}
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		assert.Equal(t, string(prev[len(prev)-200:]), string(cur[:200]), "chunks %d and %d must share 200 characters", i-1, i)
	}

	rebuilt := chunks[0]
	for _, c := range chunks[1:] {
		rebuilt += string([]rune(c)[200:])
	}
	assert.Equal(t, text, rebuilt)
}

func TestChunkText_ShortText(t *testing.T) {
	chunks, err := ChunkText("short note", 1000, 200)
	require.NoError(t, err)
	assert.Equal(t, []string{"short note"}, chunks)
}

func TestChunkText_ExactFit(t *testing.T) {
	text := strings.Repeat("x", 1000)
	chunks, err := ChunkText(text, 1000, 200)
	require.NoError(t, err)
	assert.Len(t, chunks, 1)
}

func TestChunkText_Multibyte(t *testing.T) {
	text := strings.Repeat("é", 25)
	chunks, err := ChunkText(text, 10, 2)
	require.NoError(t, err)
	for _, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 10)
	}
	assert.Equal(t, "éé", string([]rune(chunks[1])[:2]))
}

func TestChunkText_Invalid(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 10, -1},
		{"overlap equals size", 10, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ChunkText("text", tt.size, tt.overlap)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestChunkText_Blank(t *testing.T) {
	chunks, err := ChunkText(" \n\t", 10, 2)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestNewChunkEngine_ClampsOverlap(t *testing.T) {
	ce := NewChunkEngine(nil, WithChunkSize(100), WithChunkOverlap(150))
	chunks, err := ce.Chunk(strings.Repeat("a", 250))
	require.NoError(t, err)
	// step is 75 once overlap is reduced to 25
	assert.Len(t, chunks, 3)
}

func TestGenerateChunkEmbeddings_DropsMalformed(t *testing.T) {
	gw := &fakeGateway{batch: func(texts []string) [][]float64 {
		return [][]float64{
			{1, 2, 3},
			{},
			{1, 2},
		}
	}}
	ce := NewChunkEngine(gw, WithChunkDimension(3))

	pairs, err := ce.GenerateChunkEmbeddings(context.Background(), []string{"a", "b", "c", "d"})
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, pairs[0].Index)
	assert.Equal(t, "a", pairs[0].Content)
}

func TestGenerateChunkEmbeddings_ProviderError(t *testing.T) {
	ce := NewChunkEngine(&fakeGateway{batchErr: errors.New("rate limited")})
	_, err := ce.GenerateChunkEmbeddings(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestGenerateChunkEmbeddings_Empty(t *testing.T) {
	ce := NewChunkEngine(nil)
	pairs, err := ce.GenerateChunkEmbeddings(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}
