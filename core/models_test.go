package core

import (
	"testing"
)

func TestFingerprint(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{
			name: "same text produces same fingerprint",
			text: "Exercise: Goblet Squat | Category: strength",
		},
		{
			name: "empty string",
			text: "",
		},
		{
			name: "long text",
			text: "A much longer searchable text with instructions, muscles and equipment that should still hash consistently",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h1 := Fingerprint(tt.text)
			h2 := Fingerprint(tt.text)

			if h1 != h2 {
				t.Errorf("Fingerprint() produced different hashes for same text: %d vs %d", h1, h2)
			}
		})
	}
}

func TestFingerprint_Different(t *testing.T) {
	h1 := Fingerprint("Exercise: Plank")
	h2 := Fingerprint("Exercise: Squat")

	if h1 == h2 {
		t.Errorf("Fingerprint() produced same hash for different text")
	}
}

func TestVectorPoint_PointID(t *testing.T) {
	point := VectorPoint{ExerciseId: 4217}

	if got, want := point.PointID(), "exercise_4217"; got != want {
		t.Errorf("PointID() = %q, want %q", got, want)
	}
}
