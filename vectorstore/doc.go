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


// Package vectorstore provides the vector database abstraction shared by
// ingestion and retrieval.
//
// The Store interface owns collection lifecycle, point upsert and
// nearest-neighbor search for one exercise collection. Two backends
// implement it:
//
//   - vectorstore/badger: an embedded BadgerDB store that serializes points
//     with MUS and scans them with exact cosine similarity. Supports
//     in-memory operation, which is what the test suites run against.
//   - vectorstore/qdrant: a gRPC client for a Qdrant server, the production
//     backend.
//
// # Determinism contract
//
// Both backends return search results ordered by descending cosine score
// with ties broken by ascending exercise id. Retrieval depends on this for
// reproducible section selections; any new backend must preserve it.
//
// # Constructor Return Type Pattern
//
// Public constructors return concrete types; consumers accept the
// vectorstore.Store interface. Ingestion and retrieval never import a
// backend package.
//
// # Concurrency
//
// Stores are safe for concurrent readers. Ingestion is a single-writer
// process per collection: concurrent ingestion runs are only safe when
// their id ranges are disjoint, which is a caller obligation, not something
// the backends enforce.
package vectorstore
