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


package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/vectorstore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Config holds configuration for the Qdrant-backed store.
type Config struct {
	// Host and Port locate the Qdrant gRPC endpoint (default port 6334).
	Host string
	Port int

	// Collection is the collection name holding the exercise points.
	Collection string

	// Dimension is the expected vector dimensionality.
	Dimension int

	// Timeout is applied per request.
	// Default: 30s
	Timeout time.Duration
}

// Store is a Qdrant gRPC-backed vector store, the production backend.
type Store struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	config      Config
	closed      atomic.Bool
	logger      *slog.Logger
}

var (
	_ vectorstore.Store            = (*Store)(nil)
	_ vectorstore.FilteredSearcher = (*Store)(nil)
)

// Dial connects to a Qdrant server. The connection is lazy; a dead server
// surfaces as ErrStoreUnavailable on the first call.
func Dial(config Config) (*Store, error) {
	if config.Collection == "" {
		return nil, fmt.Errorf("qdrant config: Collection is required")
	}
	if config.Dimension <= 0 {
		return nil, fmt.Errorf("qdrant config: Dimension must be positive")
	}
	if config.Port == 0 {
		config.Port = 6334
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	target := fmt.Sprintf("%s:%d", config.Host, config.Port)
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", vectorstore.ErrStoreUnavailable, err)
	}

	return &Store{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		config:      config,
		logger:      slog.Default().With("component", "qdrant-store", "collection", config.Collection),
	}, nil
}

// Close closes the gRPC connection. Any call on a closed store returns
// ErrStoreClosed.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.conn.Close()
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.config.Timeout)
}

// EnsureCollection creates the collection with cosine distance if it does
// not exist, and verifies the dimensionality if it does.
func (s *Store) EnsureCollection(ctx context.Context) error {
	if s.closed.Load() {
		return vectorstore.ErrStoreClosed
	}
	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()

	listResp, err := s.collections.List(reqCtx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: listing collections: %v", vectorstore.ErrStoreUnavailable, err)
	}

	for _, col := range listResp.GetCollections() {
		if col.GetName() != s.config.Collection {
			continue
		}

		infoCtx, infoCancel := s.withTimeout(ctx)
		defer infoCancel()
		info, err := s.collections.Get(infoCtx, &qdrantclient.GetCollectionInfoRequest{
			CollectionName: s.config.Collection,
		})
		if err != nil {
			return fmt.Errorf("%w: describing collection: %v", vectorstore.ErrStoreUnavailable, err)
		}

		size := info.GetResult().GetConfig().GetParams().GetVectorsConfig().GetParams().GetSize()
		if size != uint64(s.config.Dimension) {
			return fmt.Errorf("%w: collection has dimension %d, store configured for %d",
				vectorstore.ErrDimensionMismatch, size, s.config.Dimension)
		}
		return nil
	}

	s.logger.Info("creating collection", "dimension", s.config.Dimension)
	createCtx, createCancel := s.withTimeout(ctx)
	defer createCancel()
	_, err = s.collections.Create(createCtx, &qdrantclient.CreateCollection{
		CollectionName: s.config.Collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(s.config.Dimension),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: creating collection: %v", vectorstore.ErrStoreUnavailable, err)
	}
	return nil
}

// Upsert writes points with overwrite-by-id semantics. Point ids are
// deterministic UUIDs derived from "exercise_{id}", so re-sending a point
// overwrites the previous version instead of accumulating duplicates.
func (s *Store) Upsert(ctx context.Context, points []*core.VectorPoint) error {
	if s.closed.Load() {
		return vectorstore.ErrStoreClosed
	}
	if len(points) == 0 {
		return nil
	}

	upsert := make([]*qdrantclient.PointStruct, 0, len(points))
	for _, point := range points {
		if len(point.Vector) != s.config.Dimension {
			return fmt.Errorf("%w: point %s has %d dimensions, collection has %d",
				vectorstore.ErrDimensionMismatch, point.PointID(), len(point.Vector), s.config.Dimension)
		}
		upsert = append(upsert, &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: pointUUID(point)},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: point.Vector},
				},
			},
			Payload: buildPayload(point),
		})
	}

	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	_, err := s.points.Upsert(reqCtx, &qdrantclient.UpsertPoints{
		CollectionName: s.config.Collection,
		Points:         upsert,
	})
	if err != nil {
		return fmt.Errorf("%w: upserting %d points: %v", vectorstore.ErrStoreUnavailable, len(points), err)
	}
	return nil
}

// Search runs a nearest-neighbor query with a server-side must_not filter
// for the excluded exercise ids, then re-sorts the page locally so equal
// scores order by ascending exercise id regardless of server tie behavior.
func (s *Store) Search(ctx context.Context, vector []float32, limit int, excludeIDs []int64) ([]core.ScoredPoint, error) {
	return s.SearchFiltered(ctx, vector, limit, excludeIDs, vectorstore.Filters{})
}

// SearchFiltered is Search with additional server-side must conditions on
// the payload tags: difficulty matches exactly, and each requested muscle
// group and equipment value must be present in the point's list.
func (s *Store) SearchFiltered(ctx context.Context, vector []float32, limit int, excludeIDs []int64, filters vectorstore.Filters) ([]core.ScoredPoint, error) {
	if s.closed.Load() {
		return nil, vectorstore.ErrStoreClosed
	}
	if limit <= 0 {
		return []core.ScoredPoint{}, nil
	}

	req := &qdrantclient.SearchPoints{
		CollectionName: s.config.Collection,
		Vector:         vector,
		Limit:          uint64(limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	}
	if filter := searchFilter(excludeIDs, filters); filter != nil {
		req.Filter = filter
	}

	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	resp, err := s.points.Search(reqCtx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: searching: %v", vectorstore.ErrStoreUnavailable, err)
	}

	results := make([]core.ScoredPoint, 0, len(resp.GetResult()))
	for _, hit := range resp.GetResult() {
		point, err := pointFromPayload(hit.GetPayload())
		if err != nil {
			s.logger.Warn("skipping malformed payload", "err", err)
			continue
		}
		results = append(results, core.ScoredPoint{Point: point, Score: hit.GetScore()})
	}

	slices.SortStableFunc(results, func(a, b core.ScoredPoint) int {
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
	return results, nil
}

// Count reports the number of points in the collection.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.closed.Load() {
		return 0, vectorstore.ErrStoreClosed
	}
	reqCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	info, err := s.collections.Get(reqCtx, &qdrantclient.GetCollectionInfoRequest{
		CollectionName: s.config.Collection,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: describing collection: %v", vectorstore.ErrStoreUnavailable, err)
	}
	return int(info.GetResult().GetPointsCount()), nil
}

// pointUUID derives a deterministic UUIDv5 from the point id string. Qdrant
// point ids must be integers or UUIDs; hashing "exercise_{id}" keeps the
// upsert idempotent across ingestion runs.
func pointUUID(point *core.VectorPoint) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(point.PointID())).String()
}

// searchFilter combines the exclusion set (must_not on exercise_id) with
// the optional tag filters (must on the payload fields). Returns nil when
// neither is set so the request carries no filter at all.
func searchFilter(excludeIDs []int64, filters vectorstore.Filters) *qdrantclient.Filter {
	if len(excludeIDs) == 0 && filters.Empty() {
		return nil
	}

	filter := &qdrantclient.Filter{}
	for _, id := range excludeIDs {
		filter.MustNot = append(filter.MustNot, fieldCondition("exercise_id", &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Integer{Integer: id},
		}))
	}
	if filters.Difficulty != "" {
		filter.Must = append(filter.Must, keywordCondition("difficulty", string(filters.Difficulty)))
	}
	for _, muscle := range filters.MuscleGroups {
		filter.Must = append(filter.Must, keywordCondition("muscle_groups", muscle))
	}
	for _, equipment := range filters.Equipment {
		filter.Must = append(filter.Must, keywordCondition("equipment", equipment))
	}
	return filter
}

func fieldCondition(key string, match *qdrantclient.Match) *qdrantclient.Condition {
	return &qdrantclient.Condition{
		ConditionOneOf: &qdrantclient.Condition_Field{
			Field: &qdrantclient.FieldCondition{Key: key, Match: match},
		},
	}
}

func keywordCondition(key, value string) *qdrantclient.Condition {
	return fieldCondition(key, &qdrantclient.Match{
		MatchValue: &qdrantclient.Match_Keyword{Keyword: value},
	})
}

func buildPayload(point *core.VectorPoint) map[string]*qdrantclient.Value {
	return map[string]*qdrantclient.Value{
		"exercise_id":   intValue(point.ExerciseId),
		"name":          stringValue(point.Name),
		"category":      stringValue(point.Category),
		"muscle_groups": listValue(point.MuscleGroups),
		"equipment":     listValue(point.Equipment),
		"difficulty":    stringValue(string(point.Difficulty)),
		"text":          stringValue(point.Text),
		"text_hash":     intValue(int64(point.TextHash)),
		"source":        stringValue(point.Source),
		"uploaded_at":   stringValue(point.UploadedAt.UTC().Format(time.RFC3339)),
	}
}

func pointFromPayload(payload map[string]*qdrantclient.Value) (*core.VectorPoint, error) {
	exerciseID := payload["exercise_id"].GetIntegerValue()
	if exerciseID <= 0 {
		return nil, fmt.Errorf("payload has no exercise_id")
	}

	point := &core.VectorPoint{
		ExerciseId:   exerciseID,
		Name:         payload["name"].GetStringValue(),
		Category:     payload["category"].GetStringValue(),
		MuscleGroups: stringList(payload["muscle_groups"]),
		Equipment:    stringList(payload["equipment"]),
		Difficulty:   core.Difficulty(payload["difficulty"].GetStringValue()),
		Text:         payload["text"].GetStringValue(),
		TextHash:     uint64(payload["text_hash"].GetIntegerValue()),
		Source:       payload["source"].GetStringValue(),
	}
	if raw := payload["uploaded_at"].GetStringValue(); raw != "" {
		if ts, err := time.Parse(time.RFC3339, raw); err == nil {
			point.UploadedAt = ts
		}
	}
	return point, nil
}

func stringValue(v string) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_StringValue{StringValue: v}}
}

func intValue(v int64) *qdrantclient.Value {
	return &qdrantclient.Value{Kind: &qdrantclient.Value_IntegerValue{IntegerValue: v}}
}

func listValue(items []string) *qdrantclient.Value {
	values := make([]*qdrantclient.Value, 0, len(items))
	for _, item := range items {
		values = append(values, stringValue(item))
	}
	return &qdrantclient.Value{
		Kind: &qdrantclient.Value_ListValue{
			ListValue: &qdrantclient.ListValue{Values: values},
		},
	}
}

func stringList(v *qdrantclient.Value) []string {
	list := v.GetListValue()
	if list == nil {
		return nil
	}
	items := make([]string, 0, len(list.GetValues()))
	for _, value := range list.GetValues() {
		items = append(items, value.GetStringValue())
	}
	return items
}
