package services

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/custodia-labs/semantica/internal/core/ports/driven"
)

// ChunkerRegistry builds chunking strategies from profile configuration.
// Satisfied by the chunkers package registry.
type ChunkerRegistry interface {
	Build(id string, cfg map[string]any) (driven.ChunkingStrategy, error)
	Has(id string) bool
}

// EmbedderRegistry builds embedding strategies from profile configuration.
// Satisfied by the embedders package registry.
type EmbedderRegistry interface {
	Build(id string, cfg map[string]any) (driven.EmbeddingStrategy, error)
	Has(id string) bool
}

// hashContent returns the hex-encoded SHA-256 digest of text. It matches the
// digest the extractors compute, so hashes from either path are comparable.
func hashContent(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
