package cbor

import "math"

// Encoder writes CBOR items into a caller-supplied, fixed-size buffer.
// It never allocates and never grows the buffer: once the buffer is full,
// further writes are only counted, not performed, so a caller can measure
// the exact size a document would need and retry with a larger buffer
// (spec's "measurement mode", reached by constructing an Encoder with a
// zero-length buffer).
type Encoder struct {
	buf      []byte
	n        int // bytes actually written, n <= len(buf)
	overrun  int // bytes that did not fit
	deterministic bool
	checksDisabled bool
	depth    int
	maxDepth int
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithEncoderChecksDisabled lets EncodeSimple write the reserved simple-value
// codes 20-31 instead of rejecting them. Those codes collide with the
// dedicated bool/null/undefined helpers (20-23) and the two-byte-form range
// (24-31, of which only 24 onward is reserved pending future IANA
// registration); original_source/src/cborencoder.c gates the same check
// behind CBOR_ENCODER_NO_CHECK_USER for callers that know what they are
// doing.
func WithEncoderChecksDisabled() EncoderOption {
	return func(e *Encoder) { e.checksDisabled = true }
}

// NewEncoder returns an Encoder that writes into buf. buf may be
// zero-length (or nil) to run in measurement-only mode: ExtraBytesNeeded
// then reports the exact buffer size a full encode would require.
func NewEncoder(buf []byte, opts ...EncoderOption) *Encoder {
	e := &Encoder{buf: buf, maxDepth: recursionLimit}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Reset rearms e to write into buf from the beginning.
func (e *Encoder) Reset(buf []byte) {
	e.buf = buf
	e.n = 0
	e.overrun = 0
	e.depth = 0
}

// SetDeterministic enables RFC 8949 §4.2 float-width narrowing in
// EncodeFloat. Shortest-form integer encoding is always used regardless of
// this flag, and the flag affects nothing else: indefinite-length
// containers and strings can still be written while it is set.
func (e *Encoder) SetDeterministic(v bool) { e.deterministic = v }

// Bytes returns the bytes written so far. It is only a complete document
// when Err() is nil.
func (e *Encoder) Bytes() []byte { return e.buf[:e.n] }

// BytesWritten returns how many bytes have actually landed in the buffer.
func (e *Encoder) BytesWritten() int { return e.n }

// ExtraBytesNeeded returns how many additional bytes the buffer passed to
// NewEncoder/Reset would have needed to hold the full document.
func (e *Encoder) ExtraBytesNeeded() int { return e.overrun }

// Err returns a resumable ErrOutOfMemory-class error carrying the overrun
// count, or nil if every write so far fit in the buffer.
func (e *Encoder) Err() error {
	if e.overrun > 0 {
		return errExtraBytesNeeded(e.overrun)
	}
	return nil
}

func (e *Encoder) write(p []byte) {
	if e.n >= len(e.buf) {
		e.overrun += len(p)
		return
	}
	avail := len(e.buf) - e.n
	if avail >= len(p) {
		copy(e.buf[e.n:], p)
		e.n += len(p)
		return
	}
	copy(e.buf[e.n:], p[:avail])
	e.n = len(e.buf)
	e.overrun += len(p) - avail
}

func (e *Encoder) writeByte(b byte) {
	if e.n < len(e.buf) {
		e.buf[e.n] = b
		e.n++
		return
	}
	e.overrun++
}

// encodeHeader writes the initial byte plus shortest-form argument for a
// major type and its uint64 payload (length, tag number, or unsigned
// value), per RFC 8949 §3.1's preferred-serialization rule.
func (e *Encoder) encodeHeader(major uint8, v uint64) {
	switch {
	case v < 24:
		e.writeByte(makeByte(major, uint8(v)))
	case v <= math.MaxUint8:
		e.writeByte(makeByte(major, addInfoUint8))
		e.writeByte(byte(v))
	case v <= math.MaxUint16:
		e.writeByte(makeByte(major, addInfoUint16))
		var tmp [2]byte
		tmp[0] = byte(v >> 8)
		tmp[1] = byte(v)
		e.write(tmp[:])
	case v <= math.MaxUint32:
		e.writeByte(makeByte(major, addInfoUint32))
		var tmp [4]byte
		tmp[0] = byte(v >> 24)
		tmp[1] = byte(v >> 16)
		tmp[2] = byte(v >> 8)
		tmp[3] = byte(v)
		e.write(tmp[:])
	default:
		e.writeByte(makeByte(major, addInfoUint64))
		var tmp [8]byte
		for i := 0; i < 8; i++ {
			tmp[i] = byte(v >> uint(56-8*i))
		}
		e.write(tmp[:])
	}
}

// EncodeUint encodes a non-negative integer, major type 0.
func (e *Encoder) EncodeUint(v uint64) { e.encodeHeader(majorTypeUint, v) }

// EncodeInt encodes a signed integer as major type 0 or 1, whichever the
// sign requires.
func (e *Encoder) EncodeInt(v int64) {
	if v >= 0 {
		e.EncodeUint(uint64(v))
		return
	}
	e.encodeHeader(majorTypeNegInt, uint64(-1-v))
}

// EncodeNegativeArg writes a negative-integer item directly from its
// already-encoded form (arg = magnitude-1), which is how RFC 8949 reaches
// magnitudes up to 2^64 (e.g. the item -(2^64), arg == math.MaxUint64)
// that do not fit in a signed or unsigned Go int64.
func (e *Encoder) EncodeNegativeArg(arg uint64) { e.encodeHeader(majorTypeNegInt, arg) }

// EncodeBytesHeader writes a definite-length byte-string header. The
// caller is responsible for writing exactly n bytes of content next
// (typically via one or more calls to Raw).
func (e *Encoder) EncodeBytesHeader(n uint64) { e.encodeHeader(majorTypeBytes, n) }

// EncodeBytes encodes a complete byte string.
func (e *Encoder) EncodeBytes(b []byte) {
	e.EncodeBytesHeader(uint64(len(b)))
	e.write(b)
}

// EncodeTextHeader writes a definite-length text-string header.
func (e *Encoder) EncodeTextHeader(n uint64) { e.encodeHeader(majorTypeText, n) }

// EncodeText encodes a complete UTF-8 text string.
func (e *Encoder) EncodeText(s string) {
	e.EncodeTextHeader(uint64(len(s)))
	e.write([]byte(s))
}

// Raw copies pre-encoded bytes straight into the buffer, for writing
// string/byte-string content following a header written separately.
func (e *Encoder) Raw(b []byte) { e.write(b) }

// EncodeArrayHeader writes a definite-length array header for n items.
// The caller must follow with exactly n encoded items.
func (e *Encoder) EncodeArrayHeader(n uint64) { e.encodeHeader(majorTypeArray, n) }

// EncodeMapHeader writes a definite-length map header for n key/value
// pairs. The caller must follow with exactly 2*n encoded items.
func (e *Encoder) EncodeMapHeader(n uint64) { e.encodeHeader(majorTypeMap, n) }

// OpenArrayIndefinite starts an indefinite-length array; pair with
// CloseContainer.
func (e *Encoder) OpenArrayIndefinite() { e.writeByte(makeByte(majorTypeArray, addInfoIndefinite)) }

// OpenMapIndefinite starts an indefinite-length map; pair with
// CloseContainer.
func (e *Encoder) OpenMapIndefinite() { e.writeByte(makeByte(majorTypeMap, addInfoIndefinite)) }

// OpenBytesIndefinite starts a chunked byte string (RFC 8949 §3.2.3);
// each chunk is written as a definite-length byte string via EncodeBytes,
// terminated by CloseContainer.
func (e *Encoder) OpenBytesIndefinite() { e.writeByte(makeByte(majorTypeBytes, addInfoIndefinite)) }

// OpenTextIndefinite starts a chunked text string; chunks are written
// with EncodeText, terminated by CloseContainer.
func (e *Encoder) OpenTextIndefinite() { e.writeByte(makeByte(majorTypeText, addInfoIndefinite)) }

// CloseContainer writes the break code (0xFF) terminating the most
// recently opened indefinite-length item.
func (e *Encoder) CloseContainer() { e.writeByte(makeByte(majorTypeSimple, simpleBreak)) }

// EncodeTag writes a tag header; the tagged item must follow immediately.
func (e *Encoder) EncodeTag(tag uint64) { e.encodeHeader(majorTypeTag, tag) }

// EncodeBool encodes a boolean simple value.
func (e *Encoder) EncodeBool(v bool) {
	if v {
		e.writeByte(makeByte(majorTypeSimple, simpleTrue))
		return
	}
	e.writeByte(makeByte(majorTypeSimple, simpleFalse))
}

// EncodeNull encodes the null simple value.
func (e *Encoder) EncodeNull() { e.writeByte(makeByte(majorTypeSimple, simpleNull)) }

// EncodeUndefined encodes the undefined simple value.
func (e *Encoder) EncodeUndefined() { e.writeByte(makeByte(majorTypeSimple, simpleUndefined)) }

// EncodeSimple encodes an arbitrary simple value (0-19, 32-255) that has
// no dedicated constant. Values 20-23 and 24-31 are handled by the typed
// helpers and are rejected here unless WithEncoderChecksDisabled was set.
func (e *Encoder) EncodeSimple(v uint8) error {
	switch {
	case v < 20:
		e.writeByte(makeByte(majorTypeSimple, v))
		return nil
	case v >= 32:
		e.writeByte(makeByte(majorTypeSimple, addInfoUint8))
		e.writeByte(v)
		return nil
	case e.checksDisabled:
		e.writeByte(makeByte(majorTypeSimple, addInfoUint8))
		e.writeByte(v)
		return nil
	default:
		return ErrIllegalSimple
	}
}

// EncodeFloat16 encodes bits, an IEEE 754 half-precision bit pattern.
func (e *Encoder) EncodeFloat16(bits uint16) {
	e.writeByte(makeByte(majorTypeSimple, simpleFloat16))
	var tmp [2]byte
	tmp[0] = byte(bits >> 8)
	tmp[1] = byte(bits)
	e.write(tmp[:])
}

// EncodeFloat32 encodes f as an IEEE 754 single-precision float.
func (e *Encoder) EncodeFloat32(f float32) {
	e.writeByte(makeByte(majorTypeSimple, simpleFloat32))
	bits := math.Float32bits(f)
	var tmp [4]byte
	tmp[0] = byte(bits >> 24)
	tmp[1] = byte(bits >> 16)
	tmp[2] = byte(bits >> 8)
	tmp[3] = byte(bits)
	e.write(tmp[:])
}

// EncodeFloat64 encodes f as an IEEE 754 double-precision float.
func (e *Encoder) EncodeFloat64(f float64) {
	e.writeByte(makeByte(majorTypeSimple, simpleFloat64))
	bits := math.Float64bits(f)
	var tmp [8]byte
	for i := 0; i < 8; i++ {
		tmp[i] = byte(bits >> uint(56-8*i))
	}
	e.write(tmp[:])
}

// EncodeFloat picks the narrowest of float16/32/64 that represents f
// exactly when the Encoder is in deterministic mode (RFC 8949 §4.2.3);
// otherwise it always encodes as float64.
func (e *Encoder) EncodeFloat(f float64) {
	if !e.deterministic {
		e.EncodeFloat64(f)
		return
	}
	f32 := float32(f)
	if float64(f32) == f || math.IsNaN(f) {
		if bits, ok := float32ToFloat16(f32); ok {
			e.EncodeFloat16(bits)
			return
		}
		e.EncodeFloat32(f32)
		return
	}
	e.EncodeFloat64(f)
}
