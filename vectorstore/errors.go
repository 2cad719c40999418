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


package vectorstore

import "errors"

var (
	// ErrStoreUnavailable indicates a connection or auth failure against the
	// vector database. Retryable.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrDimensionMismatch indicates the collection exists with a different
	// dimensionality, or a vector does not match the collection's
	// dimensionality. Fatal: callers must abort rather than truncate or pad.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("vector store is closed")

	// ErrSerializationFailed indicates a point could not be encoded or
	// decoded.
	ErrSerializationFailed = errors.New("serialization failed")
)
