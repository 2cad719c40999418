package badger

import "encoding/binary"

// Key prefixes for the point data and collection metadata
const (
	pointPrefix      = "expoint:"
	collectionDimKey = "excoll:dim"
)

// makePointKey generates a key for a point by exercise id.
// The id is written BigEndian so lexicographic iteration visits points in
// ascending id order.
func makePointKey(exerciseID int64) []byte {
	prefixBytes := []byte(pointPrefix)
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	binary.BigEndian.PutUint64(buf[offset:], uint64(exerciseID))
	return buf
}

// encodeDimension encodes the collection dimensionality for the marker key.
func encodeDimension(dim int) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(dim))
	return buf
}

// decodeDimension decodes the collection dimensionality marker.
func decodeDimension(data []byte) int {
	if len(data) != 8 {
		return 0
	}
	return int(binary.BigEndian.Uint64(data))
}
