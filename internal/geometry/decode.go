package geometry

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
)

// Decode parses a .geometry container produced by Encode and returns the
// reconstructed record plus recomputed content metadata. Triangle
// boundaries are not stored on the wire; the flat vertex stream of each
// piece is regrouped in threes, so a vertex count that is not a multiple
// of three fails the decode. Any structural problem fails the whole call;
// there is no partial result.
//
// Bytes after the trailing section name are tolerated: real containers
// carry sibling sections there that this decoder does not interpret.
func Decode(data []byte) (Record, Metadata, error) {
	r := &reader{data: data}
	if err := r.skip(blockCountOffset, ErrMalformedHeader); err != nil {
		return Record{}, Metadata{}, err
	}
	blocks, err := r.u32(ErrMalformedHeader)
	if err != nil {
		return Record{}, Metadata{}, err
	}

	switch blocks {
	case 0:
		return decodeEmpty(data)
	case 1:
		return decodeArmor(data)
	default:
		return Record{}, Metadata{}, fmt.Errorf("geometry: block count %d: %w", blocks, ErrMalformedHeader)
	}
}

// DecodeVerify is Decode plus a check of the content digest against an
// externally supplied expected hash.
func DecodeVerify(data []byte, wantHash [md5.Size]byte) (Record, Metadata, error) {
	rec, meta, err := Decode(data)
	if err != nil {
		return Record{}, Metadata{}, err
	}
	if meta.Hash != wantHash {
		return Record{}, Metadata{}, fmt.Errorf("geometry: content digest %x, expected %x: %w",
			meta.Hash, wantHash, ErrHashMismatch)
	}
	return rec, meta, nil
}

// decodeEmpty handles the block-count-0 shape: fixed size, nothing to
// interpret beyond the zero armor-section pointer.
func decodeEmpty(data []byte) (Record, Metadata, error) {
	if len(data) != emptySize {
		return Record{}, Metadata{}, fmt.Errorf("geometry: empty container is %d bytes, want %d: %w",
			len(data), emptySize, ErrMalformedHeader)
	}
	if pos := binary.LittleEndian.Uint32(data[sectionPosOffset:]); pos != 0 {
		return Record{}, Metadata{}, fmt.Errorf("geometry: empty container with armor section at %#x: %w",
			pos, ErrMalformedHeader)
	}
	return Record{}, Metadata{Size: 0, Hash: md5.Sum(nil)}, nil
}

func decodeArmor(data []byte) (Record, Metadata, error) {
	if len(data) < sectionPosOffset+4 {
		return Record{}, Metadata{}, fmt.Errorf("geometry: %d bytes, no armor section pointer: %w",
			len(data), ErrMalformedHeader)
	}
	sectionPos := binary.LittleEndian.Uint32(data[sectionPosOffset:])
	if sectionPos == 0 || int64(sectionPos)+sectionHeaderLen > int64(len(data)) {
		return Record{}, Metadata{}, fmt.Errorf("geometry: armor section pointer %#x out of range: %w",
			sectionPos, ErrMalformedHeader)
	}

	r := &reader{data: data, off: int(sectionPos)}
	contentLen, err := r.u32(ErrMalformedHeader)
	if err != nil {
		return Record{}, Metadata{}, err
	}
	if err := r.skip(4, ErrMalformedHeader); err != nil {
		return Record{}, Metadata{}, err
	}
	nameLenFieldPos := r.off
	nameLen, err := r.u32(ErrMalformedHeader)
	if err != nil {
		return Record{}, Metadata{}, err
	}
	if err := r.skip(4, ErrMalformedHeader); err != nil {
		return Record{}, Metadata{}, err
	}
	namePosField, err := r.u32(ErrMalformedHeader)
	if err != nil {
		return Record{}, Metadata{}, err
	}
	if err := r.skip(4, ErrMalformedHeader); err != nil {
		return Record{}, Metadata{}, err
	}

	contentStart := r.off
	rec, err := readContent(r)
	if err != nil {
		return Record{}, Metadata{}, err
	}
	contentEnd := r.off

	if uint32(contentEnd-contentStart) != contentLen {
		return Record{}, Metadata{}, fmt.Errorf("geometry: content length field %d, parsed %d bytes: %w",
			contentLen, contentEnd-contentStart, ErrMalformedHeader)
	}
	if int(nameLen) != len(sectionName) {
		return Record{}, Metadata{}, fmt.Errorf("geometry: section name length %d, want %d: %w",
			nameLen, len(sectionName), ErrMalformedHeader)
	}
	if contentEnd+len(sectionName) > len(data) {
		return Record{}, Metadata{}, fmt.Errorf("geometry: buffer ends inside section name: %w",
			ErrTruncatedContent)
	}
	if string(data[contentEnd:contentEnd+len(sectionName)]) != sectionName {
		return Record{}, Metadata{}, fmt.Errorf("geometry: unexpected section name %q: %w",
			data[contentEnd:contentEnd+len(sectionName)], ErrMalformedHeader)
	}
	if namePosField != uint32(contentEnd-nameLenFieldPos) {
		return Record{}, Metadata{}, fmt.Errorf("geometry: section name position field %d, want %d: %w",
			namePosField, contentEnd-nameLenFieldPos, ErrMalformedHeader)
	}

	meta := Metadata{
		Size: contentLen,
		Hash: md5.Sum(data[contentStart:contentEnd]),
	}
	return rec, meta, nil
}

// readContent parses the content region from the reader's current offset:
// opaque header, piece count, per-piece headers and vertex streams.
func readContent(r *reader) (Record, error) {
	if err := r.skip(unknownALen, ErrTruncatedContent); err != nil {
		return Record{}, err
	}
	pieceCount, err := r.u32(ErrTruncatedContent)
	if err != nil {
		return Record{}, err
	}
	// Every piece needs at least its fixed header; reject impossible counts
	// before sizing the slice from attacker-controlled bytes.
	if int64(pieceCount)*pieceHeaderLen > int64(r.remaining()) {
		return Record{}, fmt.Errorf("geometry: %d pieces exceed %d remaining bytes: %w",
			pieceCount, r.remaining(), ErrTruncatedContent)
	}

	pieces := make([]Piece, 0, pieceCount)
	for i := 0; i < int(pieceCount); i++ {
		id, err := r.u32(ErrTruncatedContent)
		if err != nil {
			return Record{}, err
		}
		if err := r.skip(unknownBLen, ErrTruncatedContent); err != nil {
			return Record{}, err
		}
		vertexCount, err := r.u32(ErrTruncatedContent)
		if err != nil {
			return Record{}, err
		}
		if vertexCount%3 != 0 {
			return Record{}, fmt.Errorf("geometry: piece %d has %d vertices: %w",
				id, vertexCount, ErrVertexCount)
		}
		if int64(vertexCount)*vertexStride > int64(r.remaining()) {
			return Record{}, fmt.Errorf("geometry: piece %d: %d vertices exceed %d remaining bytes: %w",
				id, vertexCount, r.remaining(), ErrTruncatedContent)
		}

		tris := make([]Triangle, vertexCount/3)
		for t := range tris {
			for v := 0; v < 3; v++ {
				tris[t][v], err = r.vertex()
				if err != nil {
					return Record{}, err
				}
			}
		}
		pieces = append(pieces, Piece{ID: uint64(id), Triangles: tris})
	}
	return Record{Pieces: pieces}, nil
}

// reader is a cursor over the input buffer. Unlike a sequential decoder
// over a stream, every read is bounds-checked and fails with the caller's
// error kind; nothing is zero-filled.
type reader struct {
	data []byte
	off  int
}

func (r *reader) remaining() int {
	return len(r.data) - r.off
}

func (r *reader) skip(n int, kind error) error {
	if r.off+n > len(r.data) {
		return fmt.Errorf("geometry: need %d bytes at offset %d, have %d: %w",
			n, r.off, r.remaining(), kind)
	}
	r.off += n
	return nil
}

func (r *reader) u32(kind error) (uint32, error) {
	if r.off+4 > len(r.data) {
		return 0, fmt.Errorf("geometry: need 4 bytes at offset %d, have %d: %w",
			r.off, r.remaining(), kind)
	}
	v := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v, nil
}

func (r *reader) vertex() (Vertex, error) {
	if r.off+vertexStride > len(r.data) {
		return Vertex{}, fmt.Errorf("geometry: need %d bytes at offset %d, have %d: %w",
			vertexStride, r.off, r.remaining(), ErrTruncatedContent)
	}
	var v Vertex
	for i := 0; i < 3; i++ {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(r.data[r.off+4*i:]))
	}
	r.off += vertexStride
	return v, nil
}
