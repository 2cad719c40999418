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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/strideworks/exvec/ai"
	"github.com/strideworks/exvec/catalog"
	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/vectorstore"
)

// Config holds configuration for an ingestion run.
type Config struct {
	// BatchSize is the number of exercises accumulated before a single
	// embed-batch and upsert call. Default: 25.
	BatchSize int

	// MaxRetries is the attempt cap for fetch, embed and upsert calls.
	// Default: 3.
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff. Default: 1s.
	RetryDelay time.Duration

	// AbortThreshold is the failure rate (0..1] beyond which the run fails
	// fast with ErrAborted instead of completing with a mostly-empty
	// collection. 1 disables the check. Default: 0.5.
	AbortThreshold float64

	// Source is the provenance label written into each point's payload.
	// Default: "trainerize_api".
	Source string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      25,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
		AbortThreshold: 0.5,
		Source:         "trainerize_api",
	}
}

// Summary reports the terminal state counts of one ingestion run. An
// exercise may appear in several stage counts: an upserted exercise was also
// fetched and embedded. Skipped, Failed and Upserted partition the id range
// together with the ids that were never attempted due to an abort.
type Summary struct {
	Requested int // ids in the requested range
	Fetched   int // records retrieved from the catalog
	Skipped   int // ids with no catalog record (not an error)
	Malformed int // records rejected by the normalizer (counted in Failed)
	Embedded  int // records turned into vectors
	Upserted  int // points written to the store
	Failed    int // ids that exhausted retries or were malformed
	Aborted   bool
}

// FailureRate returns Failed relative to the ids attempted so far.
func (s *Summary) FailureRate() float64 {
	attempted := s.Skipped + s.Failed + s.Upserted
	if attempted == 0 {
		return 0
	}
	return float64(s.Failed) / float64(attempted)
}

// Pipeline orchestrates fetching exercises from the catalog, normalizing
// them into searchable text, embedding, and upserting the vectors in
// batches. One pipeline run is a single writer against its collection;
// concurrent runs are only safe on id-disjoint ranges.
type Pipeline struct {
	catalog  catalog.Client
	embedder ai.Embedder
	store    vectorstore.Store
	pool     *ants.Pool
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithConfig replaces the default run configuration.
func WithConfig(config *Config) Option {
	return func(p *Pipeline) error {
		if config != nil {
			p.config = config
		}
		return nil
	}
}

// WithPoolSize sets the worker pool size for concurrent catalog fetches.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithProgress sets a writer for progress reporting (typically os.Stderr).
// Default is no progress output.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	catalogClient catalog.Client,
	embedder ai.Embedder,
	store vectorstore.Store,
	opts ...Option,
) (*Pipeline, error) {
	if catalogClient == nil {
		return nil, ErrCatalogRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		catalog:  catalogClient,
		embedder: embedder,
		store:    store,
		pool:     pool,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	if p.config.BatchSize <= 0 {
		p.config.BatchSize = DefaultConfig().BatchSize
	}

	return p, nil
}

// Release releases the worker pool. The pipeline must not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// fetchOutcome is the per-id result of the fetch stage.
type fetchOutcome struct {
	id      int64
	record  *core.ExerciseRecord
	skipped bool
	err     error
}

// Run ingests the id range [lo, hi] into the collection. The run completes
// on partial failure: individual ids that exhaust their retries are counted
// as failed without poisoning their batch. The run only stops early on a
// fatal store misconfiguration (dimension mismatch), on context
// cancellation, or when the failure rate exceeds the abort threshold.
func (p *Pipeline) Run(ctx context.Context, lo, hi int64) (*Summary, error) {
	if lo < 1 || hi < lo {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidRange, lo, hi)
	}

	summary := &Summary{Requested: int(hi - lo + 1)}

	if err := p.store.EnsureCollection(ctx); err != nil {
		return summary, fmt.Errorf("ensuring collection: %w", err)
	}

	p.logger.Info("starting ingestion", "from", lo, "to", hi, "batchSize", p.config.BatchSize)

	tracker := NewProgressTracker(p.progress, summary.Requested, p.config.BatchSize)
	tracker.Start()

	for batchLo := lo; batchLo <= hi; batchLo += int64(p.config.BatchSize) {
		batchHi := batchLo + int64(p.config.BatchSize) - 1
		if batchHi > hi {
			batchHi = hi
		}

		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcomes := p.fetchBatch(ctx, batchLo, batchHi)
		if err := p.processBatch(ctx, outcomes, summary); err != nil {
			return summary, err
		}

		tracker.Increment(int(batchHi - batchLo + 1))

		if p.config.AbortThreshold < 1 && summary.FailureRate() > p.config.AbortThreshold {
			summary.Aborted = true
			p.logger.Error("failure rate exceeded abort threshold",
				"failed", summary.Failed, "rate", summary.FailureRate(), "threshold", p.config.AbortThreshold)
			return summary, fmt.Errorf("%w: failure rate %.2f exceeds threshold %.2f",
				ErrAborted, summary.FailureRate(), p.config.AbortThreshold)
		}
	}

	tracker.Finish()

	p.logger.Info("ingestion complete",
		"requested", summary.Requested,
		"fetched", summary.Fetched,
		"skipped", summary.Skipped,
		"embedded", summary.Embedded,
		"upserted", summary.Upserted,
		"failed", summary.Failed,
		"elapsed", tracker.Elapsed().Round(time.Millisecond))

	return summary, nil
}

// fetchBatch retrieves one id-contiguous batch from the catalog, fanning the
// fetches out on the worker pool. Outcomes come back indexed by id offset,
// so later stages see the batch in ascending id order regardless of worker
// scheduling.
func (p *Pipeline) fetchBatch(ctx context.Context, lo, hi int64) []fetchOutcome {
	outcomes := make([]fetchOutcome, hi-lo+1)

	var wg sync.WaitGroup
	for id := lo; id <= hi; id++ {
		id := id
		slot := &outcomes[id-lo]
		slot.id = id

		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			slot.err = RetryWithBackoff(ctx, p.logger, func() error {
				record, err := p.catalog.GetExercise(ctx, id)
				if err != nil {
					if errors.Is(err, catalog.ErrNotFound) {
						slot.skipped = true
						return nil
					}
					return err
				}
				slot.record = record
				return nil
			}, p.config.MaxRetries, p.config.RetryDelay)
		})
		if submitErr != nil {
			slot.err = submitErr
			wg.Done()
		}
	}
	wg.Wait()

	return outcomes
}

// processBatch normalizes and embeds the fetched records of one batch, then
// upserts them in a single call. Only a dimension mismatch or context
// cancellation is returned as an error; everything else is tallied.
func (p *Pipeline) processBatch(ctx context.Context, outcomes []fetchOutcome, summary *Summary) error {
	texts := make([]string, 0, len(outcomes))
	records := make([]*core.ExerciseRecord, 0, len(outcomes))

	for i := range outcomes {
		outcome := &outcomes[i]
		switch {
		case outcome.skipped:
			summary.Skipped++
			p.logger.Debug("no record at id", "id", outcome.id)
		case outcome.err != nil:
			summary.Failed++
			p.logger.Warn("fetch failed after retries", "id", outcome.id, "err", outcome.err)
		default:
			summary.Fetched++
			text, err := core.SearchableText(outcome.record)
			if err != nil {
				summary.Malformed++
				summary.Failed++
				p.logger.Warn("record not embeddable", "id", outcome.id, "err", err)
				continue
			}
			texts = append(texts, text)
			records = append(records, outcome.record)
		}
	}

	if len(texts) == 0 {
		return ctx.Err()
	}

	var vectors [][]float32
	err := RetryWithBackoff(ctx, p.logger, func() error {
		var embedErr error
		vectors, embedErr = p.embedder.EmbedTexts(ctx, texts)
		return embedErr
	}, p.config.MaxRetries, p.config.RetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		summary.Failed += len(records)
		p.logger.Warn("embedding batch failed after retries", "count", len(records), "err", err)
		return nil
	}
	if len(vectors) != len(texts) {
		summary.Failed += len(records)
		p.logger.Error("embedding count mismatch", "expected", len(texts), "got", len(vectors))
		return nil
	}
	summary.Embedded += len(records)

	uploadedAt := time.Now().UTC()
	points := make([]*core.VectorPoint, len(records))
	for i, record := range records {
		points[i] = &core.VectorPoint{
			ExerciseId:   record.Id,
			Vector:       vectors[i],
			Name:         record.Name,
			Category:     record.Category,
			MuscleGroups: record.MuscleGroups,
			Equipment:    record.Equipment,
			Difficulty:   record.Difficulty,
			Text:         texts[i],
			TextHash:     core.Fingerprint(texts[i]),
			Source:       p.config.Source,
			UploadedAt:   uploadedAt,
		}
	}

	var fatal error
	err = RetryWithBackoff(ctx, p.logger, func() error {
		upsertErr := p.store.Upsert(ctx, points)
		if errors.Is(upsertErr, vectorstore.ErrDimensionMismatch) {
			fatal = upsertErr
			return nil
		}
		return upsertErr
	}, p.config.MaxRetries, p.config.RetryDelay)
	if fatal != nil {
		summary.Failed += len(points)
		return fatal
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		summary.Failed += len(points)
		p.logger.Warn("upsert batch failed after retries", "count", len(points), "err", err)
		return nil
	}

	summary.Upserted += len(points)
	return nil
}
