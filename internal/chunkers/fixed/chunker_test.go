package fixed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/semantica/internal/core/domain"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(WithChunkSize(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = New(WithChunkSize(10), WithOverlap(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// Overlap equal to chunk size would never advance.
	_, err = New(WithChunkSize(10), WithOverlap(10))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChunk_SlidingWindow(t *testing.T) {
	chunker, err := New(WithChunkSize(10), WithOverlap(2))
	require.NoError(t, err)

	content := "abcdefghijklmnopqrstuvwxy" // 25 bytes
	chunks, err := chunker.Chunk(content)
	require.NoError(t, err)
	require.Len(t, chunks, 3)

	// Step is chunkSize-overlap = 8; the last window is truncated.
	assert.Equal(t, "abcdefghij", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].StartOffset)
	assert.Equal(t, 10, chunks[0].EndOffset)

	assert.Equal(t, "ijklmnopqr", chunks[1].Content)
	assert.Equal(t, 8, chunks[1].StartOffset)

	assert.Equal(t, "qrstuvwxy", chunks[2].Content)
	assert.Equal(t, 16, chunks[2].StartOffset)
	assert.Equal(t, 25, chunks[2].EndOffset)

	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, content[chunk.StartOffset:chunk.EndOffset], chunk.Content)
		assert.Equal(t, StrategyID, chunk.Metadata["strategy"])
		assert.Equal(t, len(chunk.Content), chunk.Metadata["charCount"])
	}
}

func TestChunk_ContentSmallerThanWindow(t *testing.T) {
	chunker, err := New(WithChunkSize(100), WithOverlap(10))
	require.NoError(t, err)

	chunks, err := chunker.Chunk("short text")
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0].Content)
}

func TestChunk_EmptyContent(t *testing.T) {
	chunker, err := New()
	require.NoError(t, err)

	for _, content := range []string{"", "   ", "\n\t\n"} {
		chunks, err := chunker.Chunk(content)
		require.NoError(t, err)
		assert.Empty(t, chunks)
	}
}

func TestChunk_ZeroOverlapCoversContent(t *testing.T) {
	chunker, err := New(WithChunkSize(4), WithOverlap(0))
	require.NoError(t, err)

	content := "abcdefghij"
	chunks, err := chunker.Chunk(content)
	require.NoError(t, err)

	var rebuilt strings.Builder
	for _, chunk := range chunks {
		rebuilt.WriteString(chunk.Content)
	}
	assert.Equal(t, content, rebuilt.String())
}
