package retrieval

import "github.com/strideworks/exvec/core"

// SelectionMonitor provides hooks to observe the selection process.
// Implement this interface to track intermediate steps during section
// selection.
type SelectionMonitor interface {
	Start(query core.SectionQuery, limit int)
	AfterQueryEmbedding(vector []float32)
	AfterSearch(candidates []core.ScoredPoint)
	FallbackTriggered(have, want int)
	AfterFallbackSearch(candidates []core.ScoredPoint)
	Finish(selection *Selection)
}

// noopMonitor is a no-op implementation of SelectionMonitor
type noopMonitor struct{}

var _ SelectionMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.SectionQuery, _ int)           {}
func (n *noopMonitor) AfterQueryEmbedding(_ []float32)            {}
func (n *noopMonitor) AfterSearch(_ []core.ScoredPoint)           {}
func (n *noopMonitor) FallbackTriggered(_, _ int)                 {}
func (n *noopMonitor) AfterFallbackSearch(_ []core.ScoredPoint)   {}
func (n *noopMonitor) Finish(_ *Selection)                        {}
