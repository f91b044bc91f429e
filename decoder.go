package cbor

import (
	"math"
	"math/big"
)

// Cursor walks a CBOR document one item at a time through a Source. Once
// any method returns a non-nil error, Preparse, Next, Advance,
// AdvanceFixed and the string methods return that same error on every
// later call without touching the Source again ("sticky" error per
// session, spec §4.D.4): a malformed document cannot be partially
// recovered from by retrying. EnterArray, EnterMap, ContainerDone and
// LeaveContainer do not consult the sticky error; ContainerDone on a
// definite-length container answers from its remaining count alone.
type Cursor struct {
	src Source
	err error

	strict     bool
	tighten    bool // RFC 8949 deterministic-encoding checks
	maxDepth   int
	maxLen     int64 // 0 means unbounded

	depth  int
	frames []frame

	// decoded header of the item last positioned on by Preparse.
	typ        Type
	major      uint8
	ai         uint8
	arg        uint64
	indefinite bool
	isBreak    bool
}

type frame struct {
	isMap      bool
	remaining  int64 // items (not pairs) left to read; unused (0) if indefinite
	indefinite bool
}

// DecoderOption configures a Cursor at construction time.
type DecoderOption func(*Cursor)

// WithStrict sets the Cursor's strict flag. No Cursor method reads it, so
// map keys are not checked for duplicates while decoding. The JSON
// converter's duplicate-key check reads the flag, but only on the Cursor
// that ToJSON builds itself, without options. Non-string JSON object keys
// are rejected by ToJSON whether or not the flag is set.
func WithStrict() DecoderOption { return func(c *Cursor) { c.strict = true } }

// WithRFC8949Tightening additionally rejects indefinite-length items and
// non-shortest-form numeric encodings (RFC 8949 §4.2 deterministic mode).
func WithRFC8949Tightening() DecoderOption {
	return func(c *Cursor) { c.tighten = true; c.strict = true }
}

// WithMaxContainerLength bounds the item count of any single array/map
// header, guarding against adversarial huge-length claims.
func WithMaxContainerLength(n int64) DecoderOption {
	return func(c *Cursor) { c.maxLen = n }
}

// NewCursor returns a Cursor reading from src.
func NewCursor(src Source, opts ...DecoderOption) *Cursor {
	c := &Cursor{src: src, maxDepth: recursionLimit}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RequireNoTrailingBytes returns ErrGarbageAfterEnd if rest is non-empty.
// DiagBytes/ToJSONBytes/a bare Cursor all stop after the single top-level
// item they were asked to read and return any remainder for the caller to
// inspect (spec §4.D.5's "garbage after document" is only meaningful to a
// caller that expects the whole buffer to be one document).
func RequireNoTrailingBytes(rest []byte) error {
	if len(rest) != 0 {
		return ErrGarbageAfterEnd
	}
	return nil
}

func (c *Cursor) fail(err error) error {
	if c.err == nil {
		c.err = err
	}
	return c.err
}

// Err returns the sticky error for this session, if one has occurred.
func (c *Cursor) Err() error { return c.err }

// Type returns the Type of the item last positioned on by Preparse.
func (c *Cursor) Type() Type { return c.typ }

// IsIndefinite reports whether the current bytes/text/array/map item uses
// indefinite-length encoding.
func (c *Cursor) IsIndefinite() bool { return c.indefinite }

// IsBreak reports whether the current item is the break code (0xFF)
// terminating an indefinite-length item.
func (c *Cursor) IsBreak() bool { return c.isBreak }

// Preparse classifies the next item without consuming its content: it
// reads the initial byte and any trailing length/value bytes, validates
// they are well-formed, and leaves the Source positioned immediately
// after the header. Call one of AdvanceFixed, Advance, or
// EnterArray/EnterMap next, depending on Type().
func (c *Cursor) Preparse() error {
	if c.err != nil {
		return c.err
	}
	ib, err := c.src.ReadBytes(1)
	if err != nil {
		return c.fail(ErrUnexpectedEOF)
	}
	initial := ib[0]
	major := getMajorType(initial)
	ai := getAddInfo(initial)

	c.isBreak = false
	c.indefinite = false

	if major == majorTypeSimple && ai == simpleBreak {
		if err := c.src.AdvanceBytes(1); err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		c.isBreak = true
		c.major = major
		c.ai = ai
		c.typ = UnknownType
		return nil
	}

	var arg uint64
	hdrLen := 1
	switch {
	case ai < addInfoUint8:
		arg = uint64(ai)
	case ai == addInfoUint8:
		b, err := c.src.ReadBytes(2)
		if err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		arg = uint64(b[1])
		hdrLen = 2
		if major == majorTypeSimple && arg < 32 {
			return c.fail(ErrUnknownSimpleType)
		}
	case ai == addInfoUint16:
		b, err := c.src.ReadBytes(3)
		if err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		arg = uint64(b[1])<<8 | uint64(b[2])
		hdrLen = 3
	case ai == addInfoUint32:
		b, err := c.src.ReadBytes(5)
		if err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		arg = uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
		hdrLen = 5
	case ai == addInfoUint64:
		b, err := c.src.ReadBytes(9)
		if err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		for i := 1; i <= 8; i++ {
			arg = arg<<8 | uint64(b[i])
		}
		hdrLen = 9
	case ai >= addInfoReservedLo && ai <= addInfoReservedHi:
		return c.fail(ErrUnknownType)
	case ai == addInfoIndefinite:
		switch major {
		case majorTypeBytes, majorTypeText, majorTypeArray, majorTypeMap:
			c.indefinite = true
		default:
			return c.fail(ErrIllegalType)
		}
	}

	if c.tighten {
		if c.indefinite {
			return c.fail(ErrIndefiniteForbidden)
		}
		if major != majorTypeSimple && !isShortestForm(ai, arg) {
			return c.fail(ErrNonCanonicalNumber)
		}
	}

	if err := c.src.AdvanceBytes(hdrLen); err != nil {
		return c.fail(ErrUnexpectedEOF)
	}

	c.major = major
	c.ai = ai
	c.arg = arg
	c.typ = typeOf(initial)
	return nil
}

// AddInfo returns the additional-information field of the item last
// positioned on by Preparse, which distinguishes float16/32/64 and the
// extended simple-value form from one another when Type is FloatType or
// SimpleType.
func (c *Cursor) AddInfo() uint8 { return c.ai }

// isShortestForm reports whether ai/arg is the RFC 8949 §4.2 preferred
// (shortest) encoding of arg.
func isShortestForm(ai uint8, arg uint64) bool {
	switch {
	case ai < addInfoUint8:
		return arg < 24
	case ai == addInfoUint8:
		return arg >= 24 && arg <= math.MaxUint8
	case ai == addInfoUint16:
		return arg > math.MaxUint8 && arg <= math.MaxUint16
	case ai == addInfoUint32:
		return arg > math.MaxUint16 && arg <= math.MaxUint32
	case ai == addInfoUint64:
		return arg > math.MaxUint32
	default:
		return true
	}
}

// Uint returns the decoded value of a UintType item.
func (c *Cursor) Uint() uint64 { return c.arg }

// Int returns the decoded value of a NegIntType item as a negative int64,
// or ErrDataTooLarge if it does not fit (RFC 8949 allows up to -2^64).
func (c *Cursor) Int() (int64, error) {
	if c.arg > math.MaxInt64 {
		return 0, c.fail(ErrDataTooLarge)
	}
	return -1 - int64(c.arg), nil
}

// negIntString renders the full value of a NegIntType item, -(arg+1), as a
// decimal string. arg can be as large as math.MaxUint64 (RFC 8949's
// -(2^64)), which does not fit in an int64, so this goes through math/big
// rather than Int's narrower, overflow-checked conversion.
func negIntString(arg uint64) string {
	m := new(big.Int).SetUint64(arg)
	m.Add(m, big.NewInt(1))
	m.Neg(m)
	return m.String()
}

// Tag returns the tag number of a TagType item. The tagged value follows
// immediately and must be consumed with another Preparse.
func (c *Cursor) Tag() uint64 { return c.arg }

// Len returns the declared length (bytes/text byte count, or array/map
// item count) of a definite-length item. It is meaningless when
// IsIndefinite is true.
func (c *Cursor) Len() uint64 { return c.arg }

// Bool returns the decoded value of a BoolType item.
func (c *Cursor) Bool() bool { return c.arg == uint64(simpleTrue) }

// Simple returns the simple-value number of a SimpleType item.
func (c *Cursor) Simple() uint8 { return uint8(c.arg) }

// Float64 interprets the preparsed argument of a FloatType item as an IEEE
// 754 double-precision float (AddInfo 27). Preparse leaves the raw bits in
// the argument regardless of width; Float64 does not check the width, so
// callers pick Float16, Float32 or Float64 from AddInfo, as diag.go and
// json.go do.
func (c *Cursor) Float64() float64 {
	return math.Float64frombits(c.arg)
}

// Float32 interprets the preparsed argument as an IEEE 754 single-precision
// float (AddInfo 26). Half-precision payloads are read with Float16.
func (c *Cursor) Float32() float32 { return math.Float32frombits(uint32(c.arg)) }

// Float16 interprets the preparsed argument as an IEEE 754 half-precision
// float and widens it to float32.
func (c *Cursor) Float16() float32 { return float16ToFloat32(uint16(c.arg)) }

// AdvanceFixed finalizes a fixed-size item (Uint, NegInt, Bool, Null,
// Undefined, Float, Simple, or a Tag's own header) whose entire encoding
// was already consumed by Preparse. It is an O(1) no-op validity check;
// calling it on a Bytes/Text/Array/Map item is an error because those
// require further content consumption via Advance or EnterArray/EnterMap.
func (c *Cursor) AdvanceFixed() error {
	if c.err != nil {
		return c.err
	}
	switch c.typ {
	case BytesType, TextType, ArrayType, MapType:
		return c.fail(ErrInternal)
	}
	return nil
}

// Advance skips the entirety of the item last positioned on by Preparse,
// including all nested content; it is O(n) in the size of that content.
// It is for callers that only need to skip past a value; the diagnostic
// printer and JSON converter do not use it, they walk containers with
// EnterArray/EnterMap, ContainerDone and Next.
func (c *Cursor) Advance() error {
	if c.err != nil {
		return c.err
	}
	switch c.typ {
	case UintType, NegIntType, BoolType, NullType, UndefinedType, FloatType, SimpleType:
		return c.AdvanceFixed()
	case BytesType, TextType:
		return c.skipStringContent()
	case TagType:
		if err := c.Preparse(); err != nil {
			return err
		}
		return c.Advance()
	case ArrayType:
		return c.skipArray()
	case MapType:
		return c.skipMap()
	default:
		return c.fail(ErrIllegalType)
	}
}

func (c *Cursor) skipStringContent() error {
	if !c.indefinite {
		if err := c.src.AdvanceBytes(int(c.arg)); err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
		return nil
	}
	want := c.chunkType()
	for {
		if err := c.Preparse(); err != nil {
			return err
		}
		if c.isBreak {
			return nil
		}
		if c.typ != want {
			return c.fail(ErrIllegalType)
		}
		if c.indefinite {
			return c.fail(ErrIllegalType)
		}
		if err := c.src.AdvanceBytes(int(c.arg)); err != nil {
			return c.fail(ErrUnexpectedEOF)
		}
	}
}

// chunkType reports the Type each chunk of the string currently being
// skipped must have: it matches the major type recorded when the
// enclosing indefinite string was opened.
func (c *Cursor) chunkType() Type {
	if c.major == majorTypeText {
		return TextType
	}
	return BytesType
}

func (c *Cursor) enterDepth() error {
	c.depth++
	if c.depth > c.maxDepth {
		c.depth--
		return c.fail(ErrNestingTooDeep)
	}
	return nil
}

func (c *Cursor) skipArray() error {
	if err := c.enterDepth(); err != nil {
		return err
	}
	defer func() { c.depth-- }()
	if c.indefinite {
		for {
			if err := c.Preparse(); err != nil {
				return err
			}
			if c.isBreak {
				return nil
			}
			if err := c.Advance(); err != nil {
				return err
			}
		}
	}
	n := c.arg
	if c.maxLen > 0 && int64(n) > c.maxLen {
		return c.fail(ErrDataTooLarge)
	}
	for i := uint64(0); i < n; i++ {
		if err := c.Preparse(); err != nil {
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cursor) skipMap() error {
	if err := c.enterDepth(); err != nil {
		return err
	}
	defer func() { c.depth-- }()
	if c.indefinite {
		for {
			if err := c.Preparse(); err != nil {
				return err
			}
			if c.isBreak {
				return nil
			}
			if err := c.Advance(); err != nil { // key
				return err
			}
			if err := c.Preparse(); err != nil {
				return err
			}
			if err := c.Advance(); err != nil { // value
				return err
			}
		}
	}
	n := c.arg
	if c.maxLen > 0 && int64(n) > c.maxLen {
		return c.fail(ErrDataTooLarge)
	}
	for i := uint64(0); i < n; i++ {
		if err := c.Preparse(); err != nil { // key
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
		if err := c.Preparse(); err != nil { // value
			return err
		}
		if err := c.Advance(); err != nil {
			return err
		}
	}
	return nil
}

// EnterArray begins iterating a definite or indefinite-length array
// preparsed as the current item. Next reports each element in turn.
func (c *Cursor) EnterArray() error {
	if c.typ != ArrayType {
		return c.fail(ErrIllegalType)
	}
	if err := c.enterDepth(); err != nil {
		return err
	}
	f := frame{indefinite: c.indefinite}
	if !c.indefinite {
		if c.maxLen > 0 && int64(c.arg) > c.maxLen {
			return c.fail(ErrDataTooLarge)
		}
		f.remaining = int64(c.arg)
	}
	c.frames = append(c.frames, f)
	return nil
}

// EnterMap begins iterating a definite or indefinite-length map
// preparsed as the current item. Next reports each key, then each value,
// in turn (2*Len calls total for a definite-length map).
func (c *Cursor) EnterMap() error {
	if c.typ != MapType {
		return c.fail(ErrIllegalType)
	}
	if err := c.enterDepth(); err != nil {
		return err
	}
	f := frame{isMap: true, indefinite: c.indefinite}
	if !c.indefinite {
		if c.maxLen > 0 && int64(c.arg) > c.maxLen {
			return c.fail(ErrDataTooLarge)
		}
		f.remaining = 2 * int64(c.arg)
	}
	c.frames = append(c.frames, f)
	return nil
}

// ContainerDone reports whether the innermost open container has no more
// items; for an indefinite-length container it must Preparse the next
// item to find out and leaves that result cached as the current item
// when false.
func (c *Cursor) ContainerDone() (bool, error) {
	if len(c.frames) == 0 {
		return true, c.fail(ErrInternal)
	}
	f := &c.frames[len(c.frames)-1]
	if !f.indefinite {
		return f.remaining == 0, nil
	}
	if err := c.Preparse(); err != nil {
		return false, err
	}
	if c.isBreak {
		return true, nil
	}
	return false, nil
}

// Next must be called after ContainerDone returns false for a
// definite-length container, to preparse the next child item; for an
// indefinite-length container ContainerDone has already preparsed it.
func (c *Cursor) Next() error {
	if len(c.frames) == 0 {
		return c.fail(ErrInternal)
	}
	f := &c.frames[len(c.frames)-1]
	if f.indefinite {
		return nil
	}
	f.remaining--
	return c.Preparse()
}

// LeaveContainer closes the innermost open container. It reads nothing
// from the Source: the break code of an indefinite-length container has
// already been consumed by the ContainerDone call that reported true.
func (c *Cursor) LeaveContainer() error {
	if len(c.frames) == 0 {
		return c.fail(ErrInternal)
	}
	c.frames = c.frames[:len(c.frames)-1]
	c.depth--
	return nil
}
