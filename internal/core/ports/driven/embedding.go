package driven

import "context"

// EmbeddingStrategy turns text into fixed-dimension vectors.
//
// The same strategy and dimension must be used at index time and query time;
// a mismatch silently yields garbage similarity scores.
//
// Implementations may include:
//   - The deterministic hash embedder (default, no external dependency)
//   - External APIs (OpenAI, Ollama, ...) conforming to this contract
type EmbeddingStrategy interface {
	// StrategyID returns the registered embedder id (e.g. "hash").
	StrategyID() string

	// Version is the strategy's integer version, stamped onto projections
	// for reproducibility.
	Version() int

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	// Batching is mandatory in the projection path: some strategies only
	// support batch APIs.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
