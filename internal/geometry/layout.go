// Package geometry encodes and decodes the .geometry armor container: a
// little-endian positional layout of armor pieces (flat vertex streams
// grouped by piece id), a trailing section name, and a derived size/MD5
// pair over the content region used for verification.
package geometry

// Fixed layout of the container. All multi-byte integers are unsigned
// 32-bit little-endian; unknown regions are 0xFF fill and are reproduced
// byte-exact on encode and skipped on decode.
const (
	headerFillLen    = 20   // leading 0xFF fill
	blockCountOffset = 20   // uint32 number of armor model blocks (0 or 1)
	sectionPosOffset = 0x40 // uint32 absolute position of the armor section
	sectionStart     = 0x60 // armor section position when a block is present

	// Size of an empty container: header fill, block count 0, 0xFF padding,
	// and a zero armor-section pointer. Nothing follows.
	emptySize = sectionPosOffset + 4

	// Three uint32+zeros field pairs at the start of the armor section:
	// content length, section name length, section name position.
	sectionHeaderLen = 24

	unknownALen = 36 // opaque region opening the content area
	unknownBLen = 24 // opaque region after each piece id
	unknownCLen = 4  // opaque region after each vertex

	fillByte = 0xFF
)

// sectionName trails the content region. Its length field holds
// len(sectionName) including the NUL.
const sectionName = "CM_PA_united.armor\x00"

// vertexStride is bytes per vertex on the wire: three float32 plus the
// per-vertex opaque region.
const vertexStride = 3*4 + unknownCLen

// pieceHeaderLen is bytes per piece before its vertices: id, opaque
// region, vertex count.
const pieceHeaderLen = 4 + unknownBLen + 4
