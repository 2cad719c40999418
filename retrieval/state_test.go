package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionState(t *testing.T) {
	state := NewSelectionState()

	assert.Equal(t, 0, state.Len())
	assert.False(t, state.IsUsed(1))
	assert.Empty(t, state.UsedIDs())

	state.MarkUsed(10)
	state.MarkUsed(3)
	state.MarkUsed(10) // duplicate is a no-op

	assert.Equal(t, 2, state.Len())
	assert.True(t, state.IsUsed(10))
	assert.True(t, state.IsUsed(3))
	assert.False(t, state.IsUsed(4))
	assert.Equal(t, []int64{10, 3}, state.UsedIDs(), "insertion order preserved")
}

func TestSelectionState_UsedIDsIsCopy(t *testing.T) {
	state := NewSelectionState()
	state.MarkUsed(1)
	state.MarkUsed(2)

	ids := state.UsedIDs()
	ids[0] = 99

	assert.Equal(t, []int64{1, 2}, state.UsedIDs())
}
