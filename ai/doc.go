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


// Package ai provides the embedding abstraction used by ingestion and retrieval.
//
// The Embedder interface maps text to fixed-dimension vectors. The ingestion
// pipeline and the retrieval engine depend only on this interface, so the
// backing model can be swapped without touching either.
//
// Two implementation sub-packages exist:
//
//   - ai/openai: production implementation for OpenAI-compatible APIs
//     (Ollama, LocalAI, vLLM, OpenAI itself)
//   - ai/mock: deterministic test double, no external dependencies
//
// Public constructors (openai.NewEmbedder) return the ai.Embedder interface
// to enforce abstraction; mock.NewMockEmbedder returns the concrete type so
// tests can inject behavior and assert call counts.
//
// Embedders do not normalize their output vectors. The similarity metric,
// and any normalization it requires, belongs to the vector store.
package ai
