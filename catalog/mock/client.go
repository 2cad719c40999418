package mock

import (
	"context"
	"sync"

	"github.com/strideworks/exvec/catalog"
	"github.com/strideworks/exvec/core"
)

// MockClient is a test double for catalog.Client.
// It serves records from an in-memory map and allows custom behavior
// injection via GetExerciseFunc.
type MockClient struct {
	// GetExerciseFunc is called by GetExercise if set.
	GetExerciseFunc func(ctx context.Context, id int64) (*core.ExerciseRecord, error)

	mu        sync.Mutex
	records   map[int64]*core.ExerciseRecord
	callCount int
}

var _ catalog.Client = (*MockClient)(nil)

// NewMockClient creates a mock catalog serving the given records.
func NewMockClient(records ...*core.ExerciseRecord) *MockClient {
	byID := make(map[int64]*core.ExerciseRecord, len(records))
	for _, record := range records {
		byID[record.Id] = record
	}
	return &MockClient{records: byID}
}

// GetExercise returns the stored record or catalog.ErrNotFound.
func (m *MockClient) GetExercise(ctx context.Context, id int64) (*core.ExerciseRecord, error) {
	m.mu.Lock()
	m.callCount++
	fn := m.GetExerciseFunc
	record, ok := m.records[id]
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, id)
	}
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return record, nil
}

// CallCount returns the number of GetExercise calls.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}
