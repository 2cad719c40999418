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


package core

import "errors"

// Domain validation errors
var (
	// ErrMalformedRecord indicates a record lacks both a name and a
	// description, so there is no meaningful signal to embed.
	ErrMalformedRecord = errors.New("malformed exercise record")

	// ErrInvalidExerciseId indicates a non-positive exercise identifier.
	ErrInvalidExerciseId = errors.New("exercise id must be positive")

	// ErrInvalidDifficulty indicates an unknown difficulty value.
	ErrInvalidDifficulty = errors.New("invalid difficulty")

	// ErrInvalidSection indicates a section number outside 1..8.
	ErrInvalidSection = errors.New("section number must be between 1 and 8")
)
