package retrieval

import (
	"context"
	"log/slog"

	"github.com/strideworks/exvec/ai"
	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/vectorstore"
)

// DefaultOverfetch is the multiplier applied to the requested result count
// when querying the store. Over-fetching leaves headroom for the exclusion
// of already-placed exercises without a second round trip.
const DefaultOverfetch = 4

// Selection is the outcome of selecting exercises for one program section.
type Selection struct {
	Section   int
	Exercises []core.ScoredPoint

	// Exhausted is set when the store could not supply enough unused
	// exercises and previously placed ones had to be reconsidered.
	Exhausted bool
}

// Engine selects exercises for program sections by semantic similarity,
// keeping sections of one program disjoint via a shared SelectionState.
type Engine struct {
	embedder  ai.Embedder
	store     vectorstore.Store
	overfetch int
	logger    *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithOverfetch sets the candidate multiplier used when querying the store.
// Values below 1 fall back to the default.
func WithOverfetch(multiplier int) Option {
	return func(e *Engine) error {
		if multiplier < 1 {
			multiplier = DefaultOverfetch
		}
		e.overfetch = multiplier
		return nil
	}
}

// NewEngine creates a new selection engine.
func NewEngine(embedder ai.Embedder, store vectorstore.Store, opts ...Option) (*Engine, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Engine{
		embedder:  embedder,
		store:     store,
		overfetch: DefaultOverfetch,
		logger:    slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// SelectForSection selects up to limit exercises for one program section.
// Exercises already marked in state are excluded; the chosen ids are marked
// in state before returning, so successive calls for the same program yield
// disjoint sections. Results are ordered by descending score with ties
// broken by ascending exercise id.
func (e *Engine) SelectForSection(ctx context.Context, state *SelectionState, query core.SectionQuery, limit int) (*Selection, error) {
	return e.SelectForSectionWithMonitor(ctx, state, query, limit, nil)
}

// SelectForSectionWithMonitor selects exercises for one section with
// monitoring. The monitor receives callbacks at each stage of the
// selection.
func (e *Engine) SelectForSectionWithMonitor(ctx context.Context, state *SelectionState, query core.SectionQuery, limit int, monitor SelectionMonitor) (*Selection, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	if state == nil {
		return nil, ErrStateRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if err := core.ValidateSection(query.Section); err != nil {
		return nil, err
	}

	monitor.Start(query, limit)

	vector, err := e.embedder.EmbedText(ctx, query.Query)
	if err != nil {
		e.logger.Error("error embedding section query", "section", query.Section, "err", err)
		return nil, err
	}
	monitor.AfterQueryEmbedding(vector)

	candidateLimit := limit * e.overfetch
	excluded := state.UsedIDs()

	candidates, err := e.store.Search(ctx, vector, candidateLimit, excluded)
	if err != nil {
		e.logger.Error("error searching for section candidates", "section", query.Section, "err", err)
		return nil, err
	}
	monitor.AfterSearch(candidates)

	// The store excludes server-side; filter again so a store that ignores
	// the exclusion list cannot produce duplicate sections.
	unused := candidates[:0:0]
	for _, candidate := range candidates {
		if !state.IsUsed(candidate.Point.ExerciseId) {
			unused = append(unused, candidate)
		}
	}

	selection := &Selection{Section: query.Section}

	if len(unused) >= limit {
		selection.Exercises = unused[:limit]
	} else {
		monitor.FallbackTriggered(len(unused), limit)
		e.logger.Warn("unused exercise pool exhausted, reconsidering placed exercises",
			"section", query.Section, "unused", len(unused), "requested", limit)

		fallback, err := e.store.Search(ctx, vector, candidateLimit, nil)
		if err != nil {
			e.logger.Error("error in fallback search", "section", query.Section, "err", err)
			return nil, err
		}
		monitor.AfterFallbackSearch(fallback)

		selection.Exhausted = true
		selection.Exercises = partitionNeverUsedFirst(fallback, state, limit)
	}

	for _, scored := range selection.Exercises {
		state.MarkUsed(scored.Point.ExerciseId)
	}

	e.logger.Debug("section selection complete",
		"section", query.Section,
		"selected", len(selection.Exercises),
		"exhausted", selection.Exhausted)
	monitor.Finish(selection)

	return selection, nil
}

// partitionNeverUsedFirst orders candidates so that exercises not yet placed
// come before already-placed ones, preserving the store's score ordering
// within each group, and truncates to limit.
func partitionNeverUsedFirst(candidates []core.ScoredPoint, state *SelectionState, limit int) []core.ScoredPoint {
	ordered := make([]core.ScoredPoint, 0, len(candidates))
	for _, candidate := range candidates {
		if !state.IsUsed(candidate.Point.ExerciseId) {
			ordered = append(ordered, candidate)
		}
	}
	for _, candidate := range candidates {
		if state.IsUsed(candidate.Point.ExerciseId) {
			ordered = append(ordered, candidate)
		}
	}
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered
}
