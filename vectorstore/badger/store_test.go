package badger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/vectorstore"
)

func newTestStore(t *testing.T, dimension int) *Store {
	t.Helper()

	store, err := OpenMemory(dimension)
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.EnsureCollection(context.Background()); err != nil {
		t.Fatalf("Failed to ensure collection: %v", err)
	}
	return store
}

func testPoint(id int64, vector []float32) *core.VectorPoint {
	return &core.VectorPoint{
		ExerciseId: id,
		Vector:     vector,
		Name:       "Exercise",
		Source:     "test",
		UploadedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestStoreBasics(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	points := []*core.VectorPoint{
		testPoint(1, []float32{1, 0}),
		testPoint(2, []float32{0, 1}),
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Failed to upsert points: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count points: %v", err)
	}
	if count != 2 {
		t.Fatalf("Expected 2 points, got %d", count)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Point.ExerciseId != 1 {
		t.Errorf("Expected exercise 1 first, got %d", results[0].Point.ExerciseId)
	}
	if results[0].Score <= results[1].Score {
		t.Errorf("Expected descending scores, got %f then %f", results[0].Score, results[1].Score)
	}
}

func TestUpsertOverwritesById(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	first := testPoint(5, []float32{1, 0})
	first.Name = "Old Name"
	if err := store.Upsert(ctx, []*core.VectorPoint{first}); err != nil {
		t.Fatalf("Failed to upsert: %v", err)
	}

	second := testPoint(5, []float32{0, 1})
	second.Name = "New Name"
	if err := store.Upsert(ctx, []*core.VectorPoint{second}); err != nil {
		t.Fatalf("Failed to upsert again: %v", err)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("Failed to count points: %v", err)
	}
	if count != 1 {
		t.Fatalf("Expected 1 point after re-upsert, got %d", count)
	}

	results, err := store.Search(ctx, []float32{0, 1}, 1, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].Point.Name != "New Name" {
		t.Errorf("Expected overwritten payload, got name %q", results[0].Point.Name)
	}
}

func TestSearchOrdering(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	// Exercises 20 and 10 have identical vectors; the tie must break toward
	// the lower exercise id.
	points := []*core.VectorPoint{
		testPoint(20, []float32{1, 0}),
		testPoint(10, []float32{1, 0}),
		testPoint(30, []float32{0.6, 0.8}),
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Failed to upsert points: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 10, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	var gotIds []int64
	for _, r := range results {
		gotIds = append(gotIds, r.Point.ExerciseId)
	}
	wantIds := []int64{10, 20, 30}
	for i := range wantIds {
		if gotIds[i] != wantIds[i] {
			t.Fatalf("Expected order %v, got %v", wantIds, gotIds)
		}
	}
}

func TestSearchExclusion(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	points := []*core.VectorPoint{
		testPoint(1, []float32{1, 0}),
		testPoint(2, []float32{0.9, 0.1}),
		testPoint(3, []float32{0.8, 0.2}),
	}
	if err := store.Upsert(ctx, points); err != nil {
		t.Fatalf("Failed to upsert points: %v", err)
	}

	results, err := store.Search(ctx, []float32{1, 0}, 10, []int64{1, 3})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result after exclusion, got %d", len(results))
	}
	if results[0].Point.ExerciseId != 2 {
		t.Errorf("Expected exercise 2, got %d", results[0].Point.ExerciseId)
	}
}

func TestSearchFiltered(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	squat := testPoint(1, []float32{1, 0})
	squat.Difficulty = core.DifficultyAdvanced
	squat.MuscleGroups = []string{"quadriceps", "glutes"}
	squat.Equipment = []string{"barbell"}

	lunge := testPoint(2, []float32{0.9, 0.1})
	lunge.Difficulty = core.DifficultyBeginner
	lunge.MuscleGroups = []string{"quadriceps", "glutes"}
	lunge.Equipment = []string{"bodyweight"}

	curl := testPoint(3, []float32{0.8, 0.2})
	curl.Difficulty = core.DifficultyBeginner
	curl.MuscleGroups = []string{"biceps"}
	curl.Equipment = []string{"dumbbell"}

	if err := store.Upsert(ctx, []*core.VectorPoint{squat, lunge, curl}); err != nil {
		t.Fatalf("Failed to upsert points: %v", err)
	}

	results, err := store.SearchFiltered(ctx, []float32{1, 0}, 10, nil, vectorstore.Filters{
		Difficulty: core.DifficultyBeginner,
	})
	if err != nil {
		t.Fatalf("Filtered search failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 beginner results, got %d", len(results))
	}
	for _, scored := range results {
		if scored.Point.Difficulty != core.DifficultyBeginner {
			t.Errorf("Exercise %d has difficulty %q", scored.Point.ExerciseId, scored.Point.Difficulty)
		}
	}

	results, err = store.SearchFiltered(ctx, []float32{1, 0}, 10, nil, vectorstore.Filters{
		MuscleGroups: []string{"quadriceps", "glutes"},
		Equipment:    []string{"barbell"},
	})
	if err != nil {
		t.Fatalf("Filtered search failed: %v", err)
	}
	if len(results) != 1 || results[0].Point.ExerciseId != 1 {
		t.Fatalf("Expected only exercise 1, got %v", results)
	}

	// Filters and the exclusion set combine
	results, err = store.SearchFiltered(ctx, []float32{1, 0}, 10, []int64{2}, vectorstore.Filters{
		Difficulty: core.DifficultyBeginner,
	})
	if err != nil {
		t.Fatalf("Filtered search failed: %v", err)
	}
	if len(results) != 1 || results[0].Point.ExerciseId != 3 {
		t.Fatalf("Expected only exercise 3, got %v", results)
	}

	// Empty filters behave exactly like Search
	results, err = store.SearchFiltered(ctx, []float32{1, 0}, 10, nil, vectorstore.Filters{})
	if err != nil {
		t.Fatalf("Filtered search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results with empty filters, got %d", len(results))
	}
}

func TestSearchLimit(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	for id := int64(1); id <= 5; id++ {
		if err := store.Upsert(ctx, []*core.VectorPoint{testPoint(id, []float32{1, float32(id) * 0.1})}); err != nil {
			t.Fatalf("Failed to upsert point %d: %v", id, err)
		}
	}

	results, err := store.Search(ctx, []float32{1, 0}, 3, nil)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
}

func TestUpsertDimensionMismatch(t *testing.T) {
	store := newTestStore(t, 2)
	ctx := context.Background()

	err := store.Upsert(ctx, []*core.VectorPoint{testPoint(1, []float32{1, 0, 0})})
	if !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearchDimensionMismatch(t *testing.T) {
	store := newTestStore(t, 2)

	_, err := store.Search(context.Background(), []float32{1, 0, 0}, 10, nil)
	if !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestEnsureCollectionDimensionMismatch(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir, 2)
	if err != nil {
		t.Fatalf("Failed to open store: %v", err)
	}
	if err := store.EnsureCollection(ctx); err != nil {
		t.Fatalf("Failed to ensure collection: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	reopened, err := Open(dir, 3)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	err = reopened.EnsureCollection(ctx)
	if !errors.Is(err, vectorstore.ErrDimensionMismatch) {
		t.Errorf("Expected ErrDimensionMismatch, got %v", err)
	}
}

func TestClosedStore(t *testing.T) {
	store, err := OpenMemory(2)
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	ctx := context.Background()
	if err := store.EnsureCollection(ctx); err != nil {
		t.Fatalf("Failed to ensure collection: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Failed to close store: %v", err)
	}

	if err := store.EnsureCollection(ctx); !errors.Is(err, vectorstore.ErrStoreClosed) {
		t.Errorf("EnsureCollection after close: got %v, want ErrStoreClosed", err)
	}
	if err := store.Upsert(ctx, []*core.VectorPoint{testPoint(1, []float32{1, 0})}); !errors.Is(err, vectorstore.ErrStoreClosed) {
		t.Errorf("Upsert after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := store.Search(ctx, []float32{1, 0}, 1, nil); !errors.Is(err, vectorstore.ErrStoreClosed) {
		t.Errorf("Search after close: got %v, want ErrStoreClosed", err)
	}
	if _, err := store.Count(ctx); !errors.Is(err, vectorstore.ErrStoreClosed) {
		t.Errorf("Count after close: got %v, want ErrStoreClosed", err)
	}
	if err := store.Close(); err != nil {
		t.Errorf("Second close should be a no-op, got %v", err)
	}
}

func TestEnsureCollectionIdempotent(t *testing.T) {
	store := newTestStore(t, 2)

	for i := 0; i < 3; i++ {
		if err := store.EnsureCollection(context.Background()); err != nil {
			t.Fatalf("EnsureCollection call %d failed: %v", i+1, err)
		}
	}
}
