package geometry

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
)

// Encode serializes rec into a .geometry container and returns the buffer
// together with the content-region metadata. The buffer and metadata are
// owned by the caller; Encode keeps no state between calls.
//
// An empty record produces the short block-count-0 shape with no armor
// section. A record with pieces produces the block-count-1 shape: the
// content region is built in its own buffer first so its exact length and
// digest are known before the two back-patched header fields (content
// length, section name position) are filled in.
func Encode(rec Record) ([]byte, Metadata, error) {
	if len(rec.Pieces) == 0 {
		buf := make([]byte, emptySize)
		for i := range buf {
			buf[i] = fillByte
		}
		binary.LittleEndian.PutUint32(buf[blockCountOffset:], 0)
		// No armor section, so the pointer is zero.
		binary.LittleEndian.PutUint32(buf[sectionPosOffset:], 0)
		return buf, Metadata{Size: 0, Hash: md5.Sum(nil)}, nil
	}

	content, err := appendContent(make([]byte, 0, contentSize(rec)), rec)
	if err != nil {
		return nil, Metadata{}, err
	}

	buf := make([]byte, 0, sectionStart+sectionHeaderLen+len(content)+len(sectionName))
	buf = appendFill(buf, headerFillLen)
	buf = binary.LittleEndian.AppendUint32(buf, 1)

	buf = appendFill(buf, sectionPosOffset-len(buf))
	buf = binary.LittleEndian.AppendUint32(buf, sectionStart)
	buf = appendZeros(buf, 4)

	// Visual and collision model sections would sit here in a real file.
	buf = appendFill(buf, sectionStart-len(buf))

	lengthFieldPos := len(buf)
	buf = appendZeros(buf, 8) // content length, back-patched below
	nameLenFieldPos := len(buf)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(sectionName)))
	buf = appendZeros(buf, 4)
	namePosFieldPos := len(buf)
	buf = appendZeros(buf, 8) // name position, back-patched below

	buf = append(buf, content...)
	namePos := len(buf)
	buf = append(buf, sectionName...)

	binary.LittleEndian.PutUint32(buf[lengthFieldPos:], uint32(len(content)))
	// Stored relative to the first byte of the name length field.
	binary.LittleEndian.PutUint32(buf[namePosFieldPos:], uint32(namePos-nameLenFieldPos))

	return buf, Metadata{Size: uint32(len(content)), Hash: md5.Sum(content)}, nil
}

// appendContent emits the content region: opaque header, piece count, then
// per piece the id, opaque region, vertex count and flattened vertices.
func appendContent(dst []byte, rec Record) ([]byte, error) {
	dst = appendFill(dst, unknownALen)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(rec.Pieces)))

	for _, p := range rec.Pieces {
		if p.ID > math.MaxUint32 {
			return nil, fmt.Errorf("geometry: piece id %d: %w", p.ID, ErrIDOverflow)
		}
		dst = binary.LittleEndian.AppendUint32(dst, uint32(p.ID))
		dst = appendFill(dst, unknownBLen)
		dst = binary.LittleEndian.AppendUint32(dst, uint32(3*len(p.Triangles)))

		for _, tri := range p.Triangles {
			for _, v := range tri {
				// No NaN/Inf filtering: float bits pass through untouched.
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v[0]))
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v[1]))
				dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v[2]))
				dst = appendFill(dst, unknownCLen)
			}
		}
	}
	return dst, nil
}

// contentSize predicts the content-region length so the buffer can be
// allocated once.
func contentSize(rec Record) int {
	n := unknownALen + 4
	for _, p := range rec.Pieces {
		n += pieceHeaderLen + 3*len(p.Triangles)*vertexStride
	}
	return n
}

func appendFill(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, fillByte)
	}
	return dst
}

func appendZeros(dst []byte, n int) []byte {
	for i := 0; i < n; i++ {
		dst = append(dst, 0)
	}
	return dst
}
