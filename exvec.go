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


package exvec

import (
	"log/slog"

	"github.com/strideworks/exvec/ai"
	"github.com/strideworks/exvec/ai/openai"
	"github.com/strideworks/exvec/catalog"
	"github.com/strideworks/exvec/ingestion"
	"github.com/strideworks/exvec/retrieval"
	"github.com/strideworks/exvec/vectorstore"
	"github.com/strideworks/exvec/vectorstore/badger"
)

// System bundles a local vector store, an embedding client and an optional
// catalog client behind one handle. It is a convenience wiring for library
// consumers; the sub-packages compose the same pieces directly.
type System struct {
	store    vectorstore.Store
	embedder ai.Embedder
	catalog  catalog.Client
	logger   *slog.Logger
}

// SystemOption configures a System.
type SystemOption func(*systemOptions)

type systemOptions struct {
	aiConfig      *ai.Config
	catalogConfig *catalog.Config
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) SystemOption {
	return func(o *systemOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithCatalog enables ingestion by configuring the exercise catalog client.
func WithCatalog(config catalog.Config) SystemOption {
	return func(o *systemOptions) {
		o.catalogConfig = &config
	}
}

// NewSystem opens a BadgerDB-backed system at filePath.
func NewSystem(filePath string, opts ...SystemOption) (*System, error) {
	// Apply options
	options := &systemOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	if err := options.aiConfig.Validate(); err != nil {
		return nil, err
	}

	// Open store
	store, err := badger.Open(filePath, options.aiConfig.Dimensions)
	if err != nil {
		return nil, err
	}

	// Create embedder
	embedder, err := openai.NewEmbedder(options.aiConfig)
	if err != nil {
		store.Close()
		return nil, err
	}

	s := &System{
		store:    store,
		embedder: embedder,
		logger:   slog.Default(),
	}

	if options.catalogConfig != nil {
		catalogClient, err := catalog.NewHTTPClient(*options.catalogConfig)
		if err != nil {
			store.Close()
			return nil, err
		}
		s.catalog = catalogClient
	}

	return s, nil
}

func (s *System) Close() error {
	if err := s.store.Close(); err != nil {
		s.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

func (s *System) Store() vectorstore.Store {
	return s.store
}

func (s *System) Embedder() ai.Embedder {
	return s.embedder
}

// Catalog returns the configured catalog client, or nil when the system was
// created without WithCatalog.
func (s *System) Catalog() catalog.Client {
	return s.catalog
}

// NewIngestionPipeline builds an ingestion pipeline against the system's
// store and embedder. Requires WithCatalog.
func (s *System) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.catalog, s.embedder, s.store, opts...)
}

// NewSelectionEngine builds a program selection engine against the system's
// store and embedder.
func (s *System) NewSelectionEngine(opts ...retrieval.Option) (*retrieval.Engine, error) {
	return retrieval.NewEngine(s.embedder, s.store, opts...)
}
