package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use and must report a
// fixed output dimensionality via Dimensions.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// Embedding is deterministic for a fixed model: the same text always
	// yields the same vector.
	// Returns an error wrapping ErrEmbeddingUnavailable if the backend
	// cannot be reached or times out.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The batch form exists purely for throughput: outputs are
	// identical to calling EmbedText per element, in input order.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the fixed length of vectors produced by this
	// embedder.
	Dimensions() int
}
