package cbor

// Worst-case encoded sizes, used to presize an Encoder's buffer before a
// single value or composite tagged item is written, the same way the
// teacher's generated struct encoders summed per-field worst-case sizes to
// allocate one buffer instead of growing it incrementally. For
// variable-length types such as strings and byte slices, the total encoded
// size is the corresponding prefix size plus the length of the value.
const (
	Int8Size   = 2
	Int16Size  = 3
	Int32Size  = 5
	Int64Size  = 9
	IntSize    = Int64Size
	Uint8Size  = 2
	Uint16Size = 3
	Uint32Size = 5
	Uint64Size = Int64Size
	UintSize   = Int64Size

	Float16Size = 3
	Float32Size = 5
	Float64Size = 9

	// DurationSize bounds encoding a time.Duration, which this package
	// always does via EncodeInt on its int64 nanosecond count.
	DurationSize = Int64Size

	BoolSize = 1
	NilSize  = 1

	// TagHeaderSize is the worst-case size of a tag header alone (RFC 8949
	// major type 6): a tag number is an unsigned argument, so the bound is
	// the same as Uint64Size.
	TagHeaderSize = Uint64Size

	// MapHeaderSize, ArrayHeaderSize, BytesPrefixSize, and StringPrefixSize
	// bound the header of any length-bearing item (array/map item count,
	// or byte/text-string byte length) ahead of its content.
	MapHeaderSize    = Uint64Size
	ArrayHeaderSize  = Uint64Size
	BytesPrefixSize  = Uint64Size
	StringPrefixSize = Uint64Size

	// TimeSize bounds a single EncodeRFC3339 call: a tag header, a
	// text-string header, and the longest time.RFC3339Nano rendering
	// (nanosecond precision with a numeric zone offset, 35 bytes).
	TimeSize = TagHeaderSize + StringPrefixSize + 35
)

// MaxHeaderSize returns the worst-case size, in bytes, of an item's own
// header for the given Type, not counting the content that follows a
// bytes/text/array/map header. Callers presizing a buffer for a value of
// known Type use this the way the teacher's generated encoders summed
// per-field constants ahead of a single allocation.
func MaxHeaderSize(t Type) int {
	switch t {
	case UintType, NegIntType:
		return Uint64Size
	case TagType:
		return TagHeaderSize
	case BytesType:
		return BytesPrefixSize
	case TextType:
		return StringPrefixSize
	case ArrayType:
		return ArrayHeaderSize
	case MapType:
		return MapHeaderSize
	case BoolType:
		return BoolSize
	case NullType, UndefinedType:
		return NilSize
	case FloatType:
		return Float64Size
	case SimpleType:
		return Uint8Size
	default:
		return Uint64Size
	}
}

// MaxIntSize returns the worst-case encoded size of a signed integer that
// fits in the given bit width (8, 16, 32, or 64).
func MaxIntSize(bits int) int {
	switch {
	case bits <= 8:
		return Int8Size
	case bits <= 16:
		return Int16Size
	case bits <= 32:
		return Int32Size
	default:
		return Int64Size
	}
}

// MaxUintSize is MaxIntSize's unsigned counterpart.
func MaxUintSize(bits int) int {
	switch {
	case bits <= 8:
		return Uint8Size
	case bits <= 16:
		return Uint16Size
	case bits <= 32:
		return Uint32Size
	default:
		return Uint64Size
	}
}

// MaxFloatSize is MaxIntSize's floating-point counterpart (16, 32, or 64).
func MaxFloatSize(bits int) int {
	switch {
	case bits <= 16:
		return Float16Size
	case bits <= 32:
		return Float32Size
	default:
		return Float64Size
	}
}

// NewEncoderForInt returns an Encoder whose buffer is sized for a single
// EncodeInt call on a Go int value (worst case, since int is 64 bits on
// every platform this package targets).
func NewEncoderForInt() *Encoder { return NewEncoder(make([]byte, IntSize)) }

// NewEncoderForUint is NewEncoderForInt's unsigned counterpart, for a
// single EncodeUint call on a Go uint value.
func NewEncoderForUint() *Encoder { return NewEncoder(make([]byte, UintSize)) }

// NewEncoderForDuration returns an Encoder whose buffer is sized for a
// single EncodeInt call on a time.Duration's nanosecond count.
func NewEncoderForDuration() *Encoder { return NewEncoder(make([]byte, DurationSize)) }
