package ai

import "errors"

var (
	// ErrEmbeddingUnavailable indicates the embedding backend could not be
	// reached, could not load its model, or timed out. Retryable at the
	// caller level.
	ErrEmbeddingUnavailable = errors.New("embedding backend unavailable")
)
