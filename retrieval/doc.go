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


// Package retrieval selects exercises for the sections of a training
// program by semantic similarity.
//
// The Engine embeds a section query, over-fetches candidates from the
// vector store, and excludes exercises already placed in earlier sections
// of the same program via a shared SelectionState. When the unused pool
// runs dry, the engine falls back to reconsidering placed exercises,
// preferring never-used candidates, and flags the selection as exhausted.
//
// Selections are deterministic: the same collection contents and the same
// query text produce the same ordered result.
package retrieval
