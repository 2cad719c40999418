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


package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/strideworks/exvec/ai"
	"github.com/strideworks/exvec/ai/openai"
	"github.com/strideworks/exvec/catalog"
	"github.com/strideworks/exvec/core"
	"github.com/strideworks/exvec/ingestion"
	"github.com/strideworks/exvec/retrieval"
	"github.com/strideworks/exvec/vectorstore"
	"github.com/strideworks/exvec/vectorstore/badger"
	"github.com/strideworks/exvec/vectorstore/qdrant"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "exvec",
		Usage: "Exercise catalog vectorization and program retrieval",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Usage:  "Fetch an exercise id range from the catalog, embed and upsert it",
				Action: ingestCommand,
				Flags: append([]cli.Flag{
					&cli.Int64Flag{
						Name:     "from",
						Usage:    "First exercise id of the range (inclusive)",
						Required: true,
					},
					&cli.Int64Flag{
						Name:     "to",
						Usage:    "Last exercise id of the range (inclusive)",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "catalog-url",
						Usage:    "Exercise catalog endpoint URL",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "catalog-auth",
						Usage: "Authorization header value for the catalog",
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of exercises to process in each batch",
						Value: 25,
					},
					&cli.Float64Flag{
						Name:  "abort-threshold",
						Usage: "Failure rate (0..1] above which the run aborts; 1 disables",
						Value: 0.5,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				}, append(embeddingFlags(), storeFlags()...)...),
			},
			{
				Name:   "plan",
				Usage:  "Select exercises for all eight sections of a program",
				Action: planCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "per-section",
						Aliases: []string{"k"},
						Usage:   "Number of exercises to select per section",
						Value:   5,
					},
					&cli.StringFlag{
						Name:  "client-context",
						Usage: "Free-form client profile text appended to each section query",
					},
				}, append(embeddingFlags(), storeFlags()...)...),
			},
			{
				Name:      "search",
				Usage:     "Run a one-off semantic query against the collection",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   10,
					},
					&cli.StringFlag{
						Name:  "difficulty",
						Usage: "Only return exercises with this difficulty level",
					},
					&cli.StringSliceFlag{
						Name:  "muscle",
						Usage: "Only return exercises targeting this muscle group (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "equipment",
						Usage: "Only return exercises using this equipment (repeatable)",
					},
				}, append(embeddingFlags(), storeFlags()...)...),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "all-minilm",
		},
		&cli.IntFlag{
			Name:  "dimensions",
			Usage: "Embedding vector dimensions",
			Value: 384,
		},
	}
}

func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to a BadgerDB store directory (local store)",
		},
		&cli.StringFlag{
			Name:  "qdrant-host",
			Usage: "Qdrant gRPC host (remote store, used when --db is not set)",
			Value: "localhost",
		},
		&cli.IntFlag{
			Name:  "qdrant-port",
			Usage: "Qdrant gRPC port",
			Value: 6334,
		},
		&cli.StringFlag{
			Name:  "collection",
			Usage: "Qdrant collection name",
			Value: "exercises",
		},
	}
}

// newEmbedder builds the embedding client from the shared embedding flags.
func newEmbedder(c *cli.Context) (ai.Embedder, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("embedding-host")),
		ai.WithModel(c.String("embedding-model")),
		ai.WithDimensions(c.Int("dimensions")),
	)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedding configuration: %w", err)
	}
	return openai.NewEmbedder(config)
}

// openStore opens the vector store selected by the shared store flags:
// a local BadgerDB store when --db is set, Qdrant otherwise.
func openStore(c *cli.Context) (vectorstore.Store, error) {
	if dbPath := c.String("db"); dbPath != "" {
		return badger.Open(dbPath, c.Int("dimensions"))
	}
	return qdrant.Dial(qdrant.Config{
		Host:       c.String("qdrant-host"),
		Port:       c.Int("qdrant-port"),
		Collection: c.String("collection"),
		Dimension:  c.Int("dimensions"),
	})
}

func ingestCommand(c *cli.Context) error {
	ctx := context.Background()

	catalogClient, err := catalog.NewHTTPClient(catalog.Config{
		URL:           c.String("catalog-url"),
		Authorization: c.String("catalog-auth"),
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	embedder, err := newEmbedder(c)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	config := ingestion.DefaultConfig()
	config.BatchSize = c.Int("batch-size")
	config.AbortThreshold = c.Float64("abort-threshold")
	config.MaxRetries = c.Int("max-retries")
	config.RetryDelay = c.Duration("retry-delay")

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.AbortThreshold <= 0 || config.AbortThreshold > 1 {
		return fmt.Errorf("abort-threshold must be in (0, 1]")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	pipeline, err := ingestion.NewPipeline(catalogClient, embedder, store,
		ingestion.WithConfig(config),
		ingestion.WithProgress(os.Stderr),
	)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("catalog-url"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	summary, runErr := pipeline.Run(ctx, c.Int64("from"), c.Int64("to"))
	if summary != nil {
		printSummary(summary)
	}
	if runErr != nil {
		if errors.Is(runErr, ingestion.ErrAborted) {
			return fmt.Errorf("ingestion aborted: %w", runErr)
		}
		return fmt.Errorf("ingestion failed: %w", runErr)
	}

	return nil
}

func printSummary(summary *ingestion.Summary) {
	fmt.Printf("Requested: %d\n", summary.Requested)
	fmt.Printf("Fetched:   %d\n", summary.Fetched)
	fmt.Printf("Skipped:   %d\n", summary.Skipped)
	fmt.Printf("Embedded:  %d\n", summary.Embedded)
	fmt.Printf("Upserted:  %d\n", summary.Upserted)
	fmt.Printf("Failed:    %d (%d malformed)\n", summary.Failed, summary.Malformed)
	if summary.Aborted {
		fmt.Println("Aborted:   yes")
	}
}

func planCommand(c *cli.Context) error {
	ctx := context.Background()

	perSection := c.Int("per-section")
	if perSection <= 0 {
		return fmt.Errorf("per-section must be greater than 0")
	}

	embedder, err := newEmbedder(c)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	engine, err := retrieval.NewEngine(embedder, store)
	if err != nil {
		return fmt.Errorf("failed to create selection engine: %w", err)
	}

	state := retrieval.NewSelectionState()
	clientContext := c.String("client-context")

	for _, section := range retrieval.Sections() {
		query, err := retrieval.QueryForSection(section.Number, clientContext)
		if err != nil {
			return err
		}

		selection, err := engine.SelectForSection(ctx, state, query, perSection)
		if err != nil {
			return fmt.Errorf("selection failed for section %d: %w", section.Number, err)
		}

		fmt.Printf("Section %d: %s (%s)\n", section.Number, section.Name, section.WeekRange)
		if selection.Exhausted {
			fmt.Println("  [exhausted: catalog too small, previously placed exercises reused]")
		}
		for _, scored := range selection.Exercises {
			fmt.Printf("  %6d  %.4f  %s\n", scored.Point.ExerciseId, scored.Score, scored.Point.Name)
		}
		fmt.Println()
	}

	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a query argument is required")
	}

	embedder, err := newEmbedder(c)
	if err != nil {
		return fmt.Errorf("failed to create embedder: %w", err)
	}

	store, err := openStore(c)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	vector, err := embedder.EmbedText(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to embed query: %w", err)
	}

	filters := vectorstore.Filters{
		Difficulty:   core.Difficulty(c.String("difficulty")),
		MuscleGroups: c.StringSlice("muscle"),
		Equipment:    c.StringSlice("equipment"),
	}
	if err := core.ValidateDifficulty(filters.Difficulty); err != nil {
		return err
	}

	var results []core.ScoredPoint
	if filters.Empty() {
		results, err = store.Search(ctx, vector, c.Int("limit"), nil)
	} else {
		searcher, ok := store.(vectorstore.FilteredSearcher)
		if !ok {
			return fmt.Errorf("the configured store does not support tag filters")
		}
		results, err = searcher.SearchFiltered(ctx, vector, c.Int("limit"), nil, filters)
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	for _, scored := range results {
		fmt.Printf("%6d  %.4f  %s\n", scored.Point.ExerciseId, scored.Score, scored.Point.Name)
	}

	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
