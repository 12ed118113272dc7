// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ContentExtractor / ExtractorRegistry: Turns raw bytes into text + hash
//   - ChunkingStrategy: Splits unit content into chunks
//   - EmbeddingStrategy: Turns chunk text into vectors
//   - VectorStore: Persists vector entries and answers similarity queries
//   - SourceStore, SemanticUnitStore, ProfileStore, ProjectionStore,
//     LineageStore: Aggregate persistence (interchangeable backends)
//   - EventPublisher: Best-effort in-process event dispatch
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, chunker, embedder or extractor package
package driven
