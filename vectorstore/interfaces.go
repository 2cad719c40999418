package vectorstore

import (
	"context"

	"github.com/strideworks/exvec/core"
)

// Store abstracts the vector database holding one exercise collection.
// Implementations must be thread-safe: retrieval runs for different programs
// share a single Store.
type Store interface {
	// EnsureCollection creates the collection if it does not exist.
	// Idempotent: an existing collection with matching dimensionality is a
	// no-op. An existing collection with a different dimensionality returns
	// ErrDimensionMismatch, which is a fatal configuration error, never
	// silently handled.
	EnsureCollection(ctx context.Context) error

	// Upsert writes points with overwrite-by-id semantics. Re-sending the
	// same point never creates a duplicate entry or touches unrelated
	// points, so the call is safe to retry. A vector whose length disagrees
	// with the collection dimensionality returns ErrDimensionMismatch.
	Upsert(ctx context.Context, points []*core.VectorPoint) error

	// Search returns up to limit nearest points by cosine similarity,
	// excluding any point whose exercise id is in excludeIDs, ordered by
	// descending score with ties broken by ascending exercise id. The
	// ordering is fully deterministic for an unchanged collection.
	Search(ctx context.Context, vector []float32, limit int, excludeIDs []int64) ([]core.ScoredPoint, error)

	// Count reports the number of points in the collection.
	Count(ctx context.Context) (int, error)

	// Close releases the underlying connection or database.
	Close() error
}

// Filters narrows a search to points matching catalog tags. Zero-value
// fields are ignored; list fields require every named value to be present
// on the point.
type Filters struct {
	Difficulty   core.Difficulty
	MuscleGroups []string
	Equipment    []string
}

// Empty reports whether no filter field is set.
func (f Filters) Empty() bool {
	return f.Difficulty == "" && len(f.MuscleGroups) == 0 && len(f.Equipment) == 0
}

// FilteredSearcher is implemented by stores that can combine tag filters
// with the exclusion set. Callers type-assert; a store without the
// capability serves unfiltered searches only.
type FilteredSearcher interface {
	// SearchFiltered behaves like Store.Search with the additional
	// constraint that every returned point matches filters.
	SearchFiltered(ctx context.Context, vector []float32, limit int, excludeIDs []int64, filters Filters) ([]core.ScoredPoint, error)
}
