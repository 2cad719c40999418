package catalog

import "errors"

var (
	// ErrNotFound indicates the catalog has no record at the requested id.
	ErrNotFound = errors.New("exercise not found")

	// ErrUnavailable indicates a transient transport or auth failure.
	// Retryable.
	ErrUnavailable = errors.New("catalog unavailable")
)
