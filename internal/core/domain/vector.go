package domain

import (
	"fmt"
	"math"
)

// Chunk is a contiguous span of a unit's content with stable offsets into
// the original text.
type Chunk struct {
	// Content is the chunk text.
	Content string

	// Index is the ordinal position within the unit content.
	Index int

	// StartOffset is the byte offset of the chunk in the original content.
	StartOffset int

	// EndOffset is the byte offset just past the chunk in the original content.
	EndOffset int

	// Metadata carries per-chunk diagnostics (strategy, char/word counts).
	Metadata map[string]any
}

// VectorEntry is one embedded chunk as stored by the vector store.
type VectorEntry struct {
	// ID is the entry key, conventionally {unitID}-{unitVersion}-{chunkIndex}.
	ID string

	// SemanticUnitID links the entry to its unit for delete-by-unit.
	SemanticUnitID string

	// Vector is the embedding.
	Vector []float32

	// Content is the chunk text.
	Content string

	// Metadata carries chunk and projection metadata.
	Metadata map[string]any
}

// VectorEntryID builds the conventional entry id so that re-projection of a
// unit replaces its prior entries deterministically.
func VectorEntryID(unitID string, unitVersion, chunkIndex int) string {
	return fmt.Sprintf("%s-%d-%d", unitID, unitVersion, chunkIndex)
}

// VectorHit is one similarity search result.
type VectorHit struct {
	// Entry is the matched vector entry.
	Entry VectorEntry

	// Score is the cosine similarity against the query vector.
	Score float64
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|). It returns 0 when either
// vector has zero magnitude or the lengths differ; it never divides by zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
