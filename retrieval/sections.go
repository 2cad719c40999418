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


package retrieval

import (
	"fmt"
	"strings"

	"github.com/strideworks/exvec/core"
)

// SectionCount is the number of two-week sections in a full program.
const SectionCount = 8

// Section describes one two-week block of a sixteen-week program. The
// descriptive fields feed the semantic query for the block.
type Section struct {
	Number         int
	Name           string
	WeekRange      string
	Focus          string
	Intensity      string
	Considerations string
}

// sections holds the fixed program structure, indexed by Number - 1.
var sections = [SectionCount]Section{
	{
		Number:         1,
		Name:           "Foundation & Assessment",
		WeekRange:      "Weeks 1-2",
		Focus:          "Basic movement patterns, form assessment, establishing routine",
		Intensity:      "Low to moderate",
		Considerations: "Focus on proper form and building confidence",
	},
	{
		Number:         2,
		Name:           "Building Fundamentals",
		WeekRange:      "Weeks 3-4",
		Focus:          "Progressive overload, compound movements, endurance building",
		Intensity:      "Moderate",
		Considerations: "Introduce more challenging variations",
	},
	{
		Number:         3,
		Name:           "Strength Development",
		WeekRange:      "Weeks 5-6",
		Focus:          "Strength training, muscle building, power development",
		Intensity:      "Moderate to high",
		Considerations: "Focus on compound lifts and progressive overload",
	},
	{
		Number:         4,
		Name:           "Metabolic Conditioning",
		WeekRange:      "Weeks 7-8",
		Focus:          "Cardiovascular fitness, fat burning, metabolic efficiency",
		Intensity:      "High",
		Considerations: "High-intensity intervals and circuit training",
	},
	{
		Number:         5,
		Name:           "Advanced Strength",
		WeekRange:      "Weeks 9-10",
		Focus:          "Advanced strength techniques, muscle hypertrophy, power",
		Intensity:      "High",
		Considerations: "Complex movements and advanced techniques",
	},
	{
		Number:         6,
		Name:           "Endurance & Stamina",
		WeekRange:      "Weeks 11-12",
		Focus:          "Muscular endurance, cardiovascular stamina, work capacity",
		Intensity:      "Moderate to high",
		Considerations: "Longer sets and extended cardio sessions",
	},
	{
		Number:         7,
		Name:           "Peak Performance",
		WeekRange:      "Weeks 13-14",
		Focus:          "Maximum performance, advanced techniques, competition prep",
		Intensity:      "Very high",
		Considerations: "Peak intensity and advanced programming",
	},
	{
		Number:         8,
		Name:           "Maintenance & Transition",
		WeekRange:      "Weeks 15-16",
		Focus:          "Maintenance, skill refinement, program transition",
		Intensity:      "Moderate",
		Considerations: "Sustain gains and prepare for next phase",
	},
}

// Sections returns the program structure in order. The returned slice is a
// copy.
func Sections() []Section {
	result := make([]Section, SectionCount)
	copy(result, sections[:])
	return result
}

// SectionByNumber returns the section descriptor for a 1-based section
// number.
func SectionByNumber(number int) (Section, error) {
	if err := core.ValidateSection(number); err != nil {
		return Section{}, err
	}
	return sections[number-1], nil
}

// QueryForSection builds the semantic query for one program section. The
// query concatenates the section's descriptive fields with an optional
// free-form client context so that differently-focused sections embed to
// different regions of the vector space.
func QueryForSection(number int, clientContext string) (core.SectionQuery, error) {
	section, err := SectionByNumber(number)
	if err != nil {
		return core.SectionQuery{}, err
	}

	parts := []string{
		section.Name,
		section.Focus,
		fmt.Sprintf("%s intensity", section.Intensity),
		section.Considerations,
	}
	if trimmed := strings.TrimSpace(clientContext); trimmed != "" {
		parts = append(parts, trimmed)
	}

	return core.SectionQuery{
		Section: number,
		Query:   strings.Join(parts, " "),
	}, nil
}
