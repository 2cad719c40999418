// Package mock provides a test double implementation of the ai.Embedder
// interface.
//
// The default behavior is fully deterministic: vectors are derived from an
// FNV hash of the input text, so the same text always embeds to the same
// vector across test runs. Custom behavior (errors, fixed vectors) is
// injected via the function fields.
//
//	embedder := mock.NewMockEmbedderWithDimensions(3)
//	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
//	    return []float32{0.1, 0.2, 0.3}, nil
//	}
package mock
