package retrieval

// SelectionState tracks the exercises already placed into a program across
// its sections. One state spans one program generation run; sections share
// it so later sections exclude what earlier sections took.
//
// SelectionState is not safe for concurrent use. Sections of a program are
// selected in order, so a single goroutine owns the state for the run.
type SelectionState struct {
	used  map[int64]struct{}
	order []int64
}

// NewSelectionState creates an empty selection state.
func NewSelectionState() *SelectionState {
	return &SelectionState{used: make(map[int64]struct{})}
}

// IsUsed reports whether an exercise id has already been placed.
func (s *SelectionState) IsUsed(id int64) bool {
	_, ok := s.used[id]
	return ok
}

// MarkUsed records an exercise id as placed. Marking an id twice is a no-op.
func (s *SelectionState) MarkUsed(id int64) {
	if _, ok := s.used[id]; ok {
		return
	}
	s.used[id] = struct{}{}
	s.order = append(s.order, id)
}

// UsedIDs returns the placed exercise ids in the order they were first
// marked. The returned slice is a copy.
func (s *SelectionState) UsedIDs() []int64 {
	ids := make([]int64, len(s.order))
	copy(ids, s.order)
	return ids
}

// Len returns the number of distinct placed exercise ids.
func (s *SelectionState) Len() int {
	return len(s.order)
}
