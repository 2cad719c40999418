package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the persisted types. Hand-written: VectorPoint is the
// only type that crosses the storage boundary, so a generator would be
// overkill. Field order is part of the on-disk format, do not reorder.

var (
	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	vectorMUS      = ord.NewSliceSer[float32](raw.Float32)
)

// nilIfEmpty keeps the round trip lossless: a nil slice marshals with length
// zero, and decoding must restore nil, not an allocated empty slice.
func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}

type vectorPointMUS struct{}

// VectorPointMUS serializes VectorPoint values for storage backends.
var VectorPointMUS = vectorPointMUS{}

func (vectorPointMUS) Marshal(p VectorPoint, bs []byte) (n int) {
	n = varint.Int64.Marshal(p.ExerciseId, bs)
	n += vectorMUS.Marshal(p.Vector, bs[n:])
	n += ord.String.Marshal(p.Name, bs[n:])
	n += ord.String.Marshal(p.Category, bs[n:])
	n += stringSliceMUS.Marshal(p.MuscleGroups, bs[n:])
	n += stringSliceMUS.Marshal(p.Equipment, bs[n:])
	n += ord.String.Marshal(string(p.Difficulty), bs[n:])
	n += ord.String.Marshal(p.Text, bs[n:])
	n += raw.Uint64.Marshal(p.TextHash, bs[n:])
	n += ord.String.Marshal(p.Source, bs[n:])
	n += varint.Int64.Marshal(p.UploadedAt.UnixMicro(), bs[n:])
	return n
}

func (vectorPointMUS) Unmarshal(bs []byte) (p VectorPoint, n int, err error) {
	var n1 int
	p.ExerciseId, n, err = varint.Int64.Unmarshal(bs)
	if err != nil {
		return
	}
	p.Vector, n1, err = vectorMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Vector = nilIfEmpty(p.Vector)
	p.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Category, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.MuscleGroups, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.MuscleGroups = nilIfEmpty(p.MuscleGroups)
	p.Equipment, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Equipment = nilIfEmpty(p.Equipment)
	var difficulty string
	difficulty, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Difficulty = Difficulty(difficulty)
	p.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.TextHash, n1, err = raw.Uint64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.Source, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var uploadedAt int64
	uploadedAt, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	p.UploadedAt = time.UnixMicro(uploadedAt).UTC()
	return
}

func (vectorPointMUS) Size(p VectorPoint) (size int) {
	size = varint.Int64.Size(p.ExerciseId)
	size += vectorMUS.Size(p.Vector)
	size += ord.String.Size(p.Name)
	size += ord.String.Size(p.Category)
	size += stringSliceMUS.Size(p.MuscleGroups)
	size += stringSliceMUS.Size(p.Equipment)
	size += ord.String.Size(string(p.Difficulty))
	size += ord.String.Size(p.Text)
	size += raw.Uint64.Size(p.TextHash)
	size += ord.String.Size(p.Source)
	size += varint.Int64.Size(p.UploadedAt.UnixMicro())
	return size
}

func (s vectorPointMUS) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return
}
