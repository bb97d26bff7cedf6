package geometry

import "errors"

// Decode and Encode wrap these sentinels with positional context; match
// them with errors.Is.
var (
	// ErrMalformedHeader covers a block count outside {0, 1}, a buffer too
	// short for a fixed-position header field, and header fields that
	// disagree with the parsed structure.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrTruncatedContent means a declared piece or vertex count runs past
	// the end of the buffer.
	ErrTruncatedContent = errors.New("truncated content")

	// ErrVertexCount means a piece's vertex count is not a multiple of
	// three, so the flat vertex stream cannot be regrouped into triangles.
	ErrVertexCount = errors.New("vertex count not a multiple of three")

	// ErrIDOverflow means a piece id does not fit the wire's uint32 field.
	ErrIDOverflow = errors.New("piece id exceeds uint32 range")

	// ErrHashMismatch means the content digest does not match the
	// externally supplied expected hash.
	ErrHashMismatch = errors.New("content hash mismatch")
)
