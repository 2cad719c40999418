// Copyright 2026 Strideworks
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/vectorstore"
)

// Store is an embedded BadgerDB-backed vector store. Points are serialized
// with MUS and searched with an exact cosine similarity scan, which is fine
// for catalogs of a few thousand exercises.
type Store struct {
	db        *badger.DB
	dimension int
	closed    atomic.Bool
	logger    *slog.Logger
}

var (
	_ vectorstore.Store            = (*Store)(nil)
	_ vectorstore.FilteredSearcher = (*Store)(nil)
)

// badgerLoggerAdapter adapts slog.Logger to badger.Logger interface.
type badgerLoggerAdapter struct {
	logger *slog.Logger
}

var _ badger.Logger = (*badgerLoggerAdapter)(nil)

func (bl *badgerLoggerAdapter) Errorf(msg string, items ...any) {
	bl.logger.Error(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Warningf(msg string, items ...any) {
	bl.logger.Warn(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Infof(msg string, items ...any) {
	bl.logger.Info(fmt.Sprintf(msg, items...))
}

func (bl *badgerLoggerAdapter) Debugf(msg string, items ...any) {
	bl.logger.Debug(fmt.Sprintf(msg, items...))
}

// Open opens a BadgerDB-backed store at the specified path with the given
// collection dimensionality. Creates the directory if it doesn't exist.
func Open(filePath string, dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filePath, 0755); err != nil {
				return nil, err
			}
			info, err = os.Stat(filePath)
			if err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", filePath)
	}

	opts := badger.DefaultOptions(filePath)
	return open(opts, dimension)
}

// OpenMemory opens an in-memory store, used by tests and local development.
func OpenMemory(dimension int) (*Store, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("dimension must be positive, got %d", dimension)
	}
	opts := badger.DefaultOptions("").WithInMemory(true)
	return open(opts, dimension)
}

func open(opts badger.Options, dimension int) (*Store, error) {
	opts.Logger = &badgerLoggerAdapter{logger: slog.Default()}
	opts.Compression = options.None

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}

	return &Store{
		db:        db,
		dimension: dimension,
		logger:    slog.Default().With("component", "badger-store"),
	}, nil
}

// Close closes the underlying database. Any call on a closed store returns
// ErrStoreClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}

// EnsureCollection writes the dimension marker on first use and verifies it
// on every subsequent call. A marker with a different dimensionality means
// the store was built for another model and must not be written to.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if s.closed.Load() {
		return vectorstore.ErrStoreClosed
	}
	return s.db.Update(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(collectionDimKey))
		if err == badger.ErrKeyNotFound {
			s.logger.Info("creating collection", "dimension", s.dimension)
			return tx.Set([]byte(collectionDimKey), encodeDimension(s.dimension))
		}
		if err != nil {
			return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
		}

		var existing int
		err = item.Value(func(val []byte) error {
			existing = decodeDimension(val)
			return nil
		})
		if err != nil {
			return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
		}
		if existing != s.dimension {
			return fmt.Errorf("%w: collection has dimension %d, store configured for %d",
				vectorstore.ErrDimensionMismatch, existing, s.dimension)
		}
		return nil
	})
}

// Upsert writes points with overwrite-by-id semantics.
func (s *Store) Upsert(ctx context.Context, points []*core.VectorPoint) error {
	if s.closed.Load() {
		return vectorstore.ErrStoreClosed
	}
	if len(points) == 0 {
		return nil
	}

	for _, point := range points {
		if len(point.Vector) != s.dimension {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d",
				vectorstore.ErrDimensionMismatch, point.PointID(), len(point.Vector), s.dimension)
		}
	}

	err := s.db.Update(func(tx *badger.Txn) error {
		for _, point := range points {
			key := makePointKey(point.ExerciseId)
			if err := tx.Set(key, vectorstore.MarshalVectorPoint(point)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	return nil
}

// Search scans all points and returns the limit closest by cosine
// similarity, excluding the given exercise ids. Results are ordered by
// descending score, ties broken by ascending exercise id.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, excludeIDs []int64) ([]core.ScoredPoint, error) {
	return s.SearchFiltered(ctx, vector, limit, excludeIDs, vectorstore.Filters{})
}

// SearchFiltered is Search restricted to points matching the given tag
// filters. Filtering happens during the scan, before scoring.
func (s *Store) SearchFiltered(ctx context.Context, vector []float32, limit int, excludeIDs []int64, filters vectorstore.Filters) ([]core.ScoredPoint, error) {
	if s.closed.Load() {
		return nil, vectorstore.ErrStoreClosed
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection has %d",
			vectorstore.ErrDimensionMismatch, len(vector), s.dimension)
	}
	if limit <= 0 {
		return []core.ScoredPoint{}, nil
	}

	excluded := make(map[int64]struct{}, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = struct{}{}
	}

	var results []core.ScoredPoint
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			var point *core.VectorPoint
			err := iter.Item().Value(func(val []byte) error {
				var err error
				point, err = vectorstore.UnmarshalVectorPoint(val)
				return err
			})
			if err != nil {
				return err
			}

			if _, ok := excluded[point.ExerciseId]; ok {
				continue
			}
			if !matchesFilters(point, filters) {
				continue
			}

			results = append(results, core.ScoredPoint{
				Point: point,
				Score: cosineSimilarity(vector, point.Vector),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Descending score, ties by ascending exercise id
	slices.SortFunc(results, func(a, b core.ScoredPoint) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		if a.Point.ExerciseId < b.Point.ExerciseId {
			return -1
		}
		if a.Point.ExerciseId > b.Point.ExerciseId {
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// Count reports the number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, vectorstore.ErrStoreClosed
	}
	count := 0
	err := s.db.View(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(pointPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}
	return count, nil
}

// matchesFilters reports whether the point satisfies every set filter
// field. List filters require each requested value to appear on the point.
func matchesFilters(point *core.VectorPoint, filters vectorstore.Filters) bool {
	if filters.Difficulty != "" && point.Difficulty != filters.Difficulty {
		return false
	}
	for _, muscle := range filters.MuscleGroups {
		if !slices.Contains(point.MuscleGroups, muscle) {
			return false
		}
	}
	for _, equipment := range filters.Equipment {
		if !slices.Contains(point.Equipment, equipment) {
			return false
		}
	}
	return true
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// A zero vector on either side scores 0.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
