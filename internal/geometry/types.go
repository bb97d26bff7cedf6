package geometry

import "encoding/hex"

// Vertex is one 3D point: x, y, z as IEEE-754 single-precision floats.
type Vertex [3]float32

// Triangle is three vertices of one armor face. The grouping exists only in
// memory: the wire format stores a flat vertex stream and the decoder
// regroups it in threes.
type Triangle [3]Vertex

// Piece is one contiguous armor plate: an integer id and its triangles.
// The id is held wider than the wire's uint32 so Encode can reject
// out-of-range ids from external sources instead of silently wrapping.
type Piece struct {
	ID        uint64
	Triangles []Triangle
}

// Record is the armor model of one container. Piece order is preserved and
// is part of the wire layout.
type Record struct {
	Pieces []Piece
}

// TriangleCount returns the total number of triangles across all pieces.
func (r Record) TriangleCount() int {
	n := 0
	for _, p := range r.Pieces {
		n += len(p.Triangles)
	}
	return n
}

// VertexCount returns the total number of vertices as stored on the wire
// (three per triangle, duplicates not shared).
func (r Record) VertexCount() int {
	return 3 * r.TriangleCount()
}

// Metadata describes the content region of an encoded container. It is
// derived from the emitted bytes, never supplied independently.
type Metadata struct {
	Size uint32   // byte length of the content region
	Hash [16]byte // MD5 of the content region bytes
}

// HashHex returns the content digest as a lowercase hex string.
func (m Metadata) HashHex() string {
	return hex.EncodeToString(m.Hash[:])
}
