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

import (
	"fmt"
	"strings"
)

// SearchableText builds the canonical embedding text for an exercise record.
//
// The field order and the " | " separator are fixed: previously ingested
// vectors were produced from this exact format, so any change here requires
// a full re-ingestion of the collection. Absent fields are omitted entirely,
// there are no empty-field placeholders.
//
// Returns ErrMalformedRecord if the record has neither a name nor a
// description.
func SearchableText(record *ExerciseRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("%w: record is nil", ErrMalformedRecord)
	}
	if record.Name == "" && record.Description == "" {
		return "", fmt.Errorf("%w: id %d has neither name nor description", ErrMalformedRecord, record.Id)
	}

	parts := make([]string, 0, 8)

	if record.Name != "" {
		parts = append(parts, "Exercise: "+record.Name)
	}
	if record.Description != "" {
		parts = append(parts, "Description: "+record.Description)
	}
	if record.Instructions != "" {
		parts = append(parts, "Instructions: "+record.Instructions)
	}
	if record.Category != "" {
		parts = append(parts, "Category: "+record.Category)
	}
	if len(record.MuscleGroups) > 0 {
		parts = append(parts, "Muscles: "+strings.Join(record.MuscleGroups, ", "))
	}
	if len(record.Equipment) > 0 {
		parts = append(parts, "Equipment: "+strings.Join(record.Equipment, ", "))
	}
	if record.Difficulty != "" {
		parts = append(parts, "Difficulty: "+string(record.Difficulty))
	}
	if len(record.Tags) > 0 {
		parts = append(parts, "Tags: "+strings.Join(record.Tags, ", "))
	}

	return strings.Join(parts, " | "), nil
}
