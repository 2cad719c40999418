package catalog

import (
	"context"

	"github.com/strideworks/exvec/core"
)

// Client fetches exercise records from a source catalog, keyed by positive
// integer id. Implementations must be thread-safe: the ingestion pipeline
// calls GetExercise from multiple workers.
type Client interface {
	// GetExercise retrieves a single exercise record by id.
	// Returns ErrNotFound if the catalog has no record at the id; that is
	// not an error condition for callers, merely an absent id. Transient
	// network or auth failures return errors wrapping ErrUnavailable and
	// are retryable.
	GetExercise(ctx context.Context, id int64) (*core.ExerciseRecord, error)
}
