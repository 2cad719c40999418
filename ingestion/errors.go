package ingestion

import "errors"

var (
	// ErrCatalogRequired is returned when a catalog client is not provided.
	ErrCatalogRequired = errors.New("catalog client required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrStoreRequired is returned when a vector store is not provided.
	ErrStoreRequired = errors.New("vector store required")

	// ErrInvalidRange is returned when the requested id range is empty or
	// starts below 1.
	ErrInvalidRange = errors.New("invalid id range")

	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrAborted indicates the run's failure rate exceeded the configured
	// abort threshold and the pipeline stopped early rather than silently
	// producing a near-empty collection.
	ErrAborted = errors.New("ingestion aborted")
)
