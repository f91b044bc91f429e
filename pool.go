package cbor

import "sync"

// ByteBuffer is a growable byte slice recycled through a sync.Pool. The
// pretty-printer and JSON converter build their output into one of these
// instead of allocating per call.
type ByteBuffer struct {
	b []byte
}

var bbPool = sync.Pool{New: func() any { return &ByteBuffer{b: make([]byte, 0, 256)} }}

// GetByteBuffer obtains a pooled, zero-length ByteBuffer.
func GetByteBuffer() *ByteBuffer {
	bb := bbPool.Get().(*ByteBuffer)
	bb.b = bb.b[:0]
	return bb
}

// PutByteBuffer returns bb to the pool.
func PutByteBuffer(bb *ByteBuffer) { bbPool.Put(bb) }

// Bytes returns the buffer's content.
func (bb *ByteBuffer) Bytes() []byte { return bb.b }

// Len returns the buffer's length.
func (bb *ByteBuffer) Len() int { return len(bb.b) }

// Reset truncates the buffer to zero length without releasing capacity.
func (bb *ByteBuffer) Reset() { bb.b = bb.b[:0] }

// Ensure grows capacity, if needed, so n more bytes can be appended without
// reallocating.
func (bb *ByteBuffer) Ensure(n int) {
	need := len(bb.b) + n
	if cap(bb.b) >= need {
		return
	}
	c := cap(bb.b)
	if c == 0 {
		c = 256
	}
	for c < need {
		c <<= 1
	}
	nb := make([]byte, len(bb.b), c)
	copy(nb, bb.b)
	bb.b = nb
}

// Extend grows the buffer by n bytes and returns that tail slice for
// direct writes.
func (bb *ByteBuffer) Extend(n int) []byte {
	old := len(bb.b)
	bb.Ensure(n)
	bb.b = bb.b[:old+n]
	return bb.b[old:]
}

// Write implements io.Writer.
func (bb *ByteBuffer) Write(p []byte) (int, error) {
	bb.Ensure(len(p))
	bb.b = append(bb.b, p...)
	return len(p), nil
}

// WriteString appends a string.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.Ensure(len(s))
	bb.b = append(bb.b, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.Ensure(1)
	bb.b = append(bb.b, c)
	return nil
}
