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

import "fmt"

// ValidateExerciseRecord validates an ExerciseRecord according to domain rules.
//
// Validation rules:
//   - Id must be positive (catalog identifiers start at 1)
//   - Difficulty, when present, must be a known level
//
// Name/description presence is deliberately NOT validated here: a record
// missing both is rejected by SearchableText with ErrMalformedRecord, which
// the ingestion pipeline counts separately.
func ValidateExerciseRecord(record *ExerciseRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrMalformedRecord)
	}

	if record.Id <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidExerciseId, record.Id)
	}

	if err := ValidateDifficulty(record.Difficulty); err != nil {
		return err
	}

	return nil
}

// ValidateDifficulty validates a difficulty value. Empty is valid: the
// catalog does not classify every exercise.
func ValidateDifficulty(d Difficulty) error {
	switch d {
	case "", DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrInvalidDifficulty, d)
	}
}

// ValidateSection validates a program section number.
func ValidateSection(section int) error {
	if section < 1 || section > 8 {
		return fmt.Errorf("%w: got %d", ErrInvalidSection, section)
	}
	return nil
}
