package cbor

// Source is the pluggable input abstraction a Cursor reads through. It
// gives the decoder four primitive operations instead of a generic
// io.Reader so that an in-memory backing can serve them all in O(1)
// without copying, while a windowed backing (source_window.go) can serve
// the same contract over data that does not fit in memory at once.
type Source interface {
	// CanReadBytes reports whether at least n bytes are available
	// starting at the current position, without moving it.
	CanReadBytes(n int) bool

	// ReadBytes returns a slice over the next n bytes without advancing
	// the position. The returned slice is only valid until the next
	// call to any Source method; callers that need to keep the data
	// must copy it (see DuplicateString). It is an error to call this
	// when CanReadBytes(n) would be false.
	ReadBytes(n int) ([]byte, error)

	// AdvanceBytes moves the current position forward by n bytes.
	AdvanceBytes(n int) error

	// TransferString copies n bytes starting at the current position
	// into dst and advances the position by n. It returns the number of
	// bytes actually copied, which is min(n, len(dst)); a dst shorter
	// than n is not an error here, matching the string materializer's
	// truncate-and-report-required-capacity contract (§4.E).
	TransferString(dst []byte, n int) (int, error)
}

// BufferSource is the default, in-memory Source: a Cursor over a single
// []byte held in full. All four operations are O(1) pointer arithmetic.
type BufferSource struct {
	buf []byte
	pos int
}

// NewBufferSource wraps buf as a Source starting at offset 0.
func NewBufferSource(buf []byte) *BufferSource { return &BufferSource{buf: buf} }

// Len returns the number of bytes remaining from the current position.
func (s *BufferSource) Len() int { return len(s.buf) - s.pos }

// Pos returns the current byte offset into the original buffer.
func (s *BufferSource) Pos() int { return s.pos }

func (s *BufferSource) CanReadBytes(n int) bool { return n >= 0 && s.Len() >= n }

func (s *BufferSource) ReadBytes(n int) ([]byte, error) {
	if !s.CanReadBytes(n) {
		return nil, ErrUnexpectedEOF
	}
	return s.buf[s.pos : s.pos+n], nil
}

func (s *BufferSource) AdvanceBytes(n int) error {
	if !s.CanReadBytes(n) {
		return ErrUnexpectedEOF
	}
	s.pos += n
	return nil
}

func (s *BufferSource) TransferString(dst []byte, n int) (int, error) {
	if !s.CanReadBytes(n) {
		return 0, ErrUnexpectedEOF
	}
	cp := copy(dst, s.buf[s.pos:s.pos+n])
	s.pos += n
	return cp, nil
}
