package core

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Difficulty is the catalog's level classification for an exercise.
// An empty value means the catalog did not classify the exercise.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// ExerciseRecord is the source-of-truth unit fetched from the exercise
// catalog. Records are immutable once fetched; re-ingestion overwrites the
// stored point by ID.
type ExerciseRecord struct {
	Id           int64
	Name         string
	Description  string
	Instructions string
	Category     string
	MuscleGroups []string
	Equipment    []string
	Difficulty   Difficulty
	Tags         []string
}

// Fingerprint generates a deterministic 64-bit content hash using BLAKE2b.
// Identical text always produces an identical fingerprint, which is what
// makes change detection across re-ingestions possible.
func Fingerprint(text string) uint64 {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return binary.LittleEndian.Uint64(sum)
}

// VectorPoint is the persisted unit in the vector store: the embedding of an
// exercise plus the payload returned to retrieval callers.
type VectorPoint struct {
	ExerciseId   int64
	Vector       []float32
	Name         string
	Category     string
	MuscleGroups []string
	Equipment    []string
	Difficulty   Difficulty
	Text         string
	TextHash     uint64
	Source       string
	UploadedAt   time.Time
}

// PointID returns the stable point identifier derived from the exercise ID.
func (p *VectorPoint) PointID() string {
	return fmt.Sprintf("exercise_%d", p.ExerciseId)
}

// SectionQuery is the retrieval request for one two-week section of a
// 16-week program. Section numbers run 1 through 8.
type SectionQuery struct {
	Section int
	Query   string
}

// ScoredPoint is a search hit with its cosine similarity score.
type ScoredPoint struct {
	Point *VectorPoint
	Score float32
}
