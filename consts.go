package cbor

// Major types, RFC 8949 §3.1.
const (
	majorTypeUint   uint8 = 0
	majorTypeNegInt uint8 = 1
	majorTypeBytes  uint8 = 2
	majorTypeText   uint8 = 3
	majorTypeArray  uint8 = 4
	majorTypeMap    uint8 = 5
	majorTypeTag    uint8 = 6
	majorTypeSimple uint8 = 7
)

// Additional-information codes, RFC 8949 §3.
const (
	addInfoUint8      uint8 = 24
	addInfoUint16     uint8 = 25
	addInfoUint32     uint8 = 26
	addInfoUint64     uint8 = 27
	addInfoReservedLo uint8 = 28
	addInfoReservedHi uint8 = 30
	addInfoIndefinite uint8 = 31
)

// Simple values under major type 7.
const (
	simpleFalse     uint8 = 20
	simpleTrue      uint8 = 21
	simpleNull      uint8 = 22
	simpleUndefined uint8 = 23
	simpleFloat16   uint8 = 25
	simpleFloat32   uint8 = 26
	simpleFloat64   uint8 = 27
	simpleBreak     uint8 = 31
)

// Tag numbers this package gives special formatting treatment, RFC 8949 §3.4.
const (
	tagDateTimeString uint64 = 0
	tagDateTimeEpoch  uint64 = 1
	tagPositiveBignum uint64 = 2
	tagNegativeBignum uint64 = 3
	tagDecimalFrac    uint64 = 4 // tags.go: EncodeDecimalFraction/DecodeDecimalFraction
	tagBigFloat       uint64 = 5 // tags.go: EncodeBigFloat/DecodeBigFloat
	tagBase64URLHint  uint64 = 21
	tagBase64Hint     uint64 = 22
	tagBase16Hint     uint64 = 23
	tagSelfDescribe   uint64 = 55799
)

const recursionLimit = 1024

// makeByte combines a major type and additional-information field into an
// initial byte.
func makeByte(major, addInfo uint8) byte { return byte(major<<5) | byte(addInfo&0x1f) }

// getMajorType extracts the major type from an initial byte.
func getMajorType(b byte) uint8 { return uint8(b >> 5) }

// getAddInfo extracts the additional-information field from an initial byte.
func getAddInfo(b byte) uint8 { return uint8(b & 0x1f) }

// Type enumerates the kinds of value a CBOR item can hold, independent of
// its exact wire encoding.
type Type uint8

const (
	UnknownType Type = iota
	UintType
	NegIntType
	BytesType
	TextType
	ArrayType
	MapType
	TagType
	BoolType
	NullType
	UndefinedType
	FloatType
	SimpleType
)

func (t Type) String() string {
	switch t {
	case UintType:
		return "uint"
	case NegIntType:
		return "negint"
	case BytesType:
		return "bytes"
	case TextType:
		return "text"
	case ArrayType:
		return "array"
	case MapType:
		return "map"
	case TagType:
		return "tag"
	case BoolType:
		return "bool"
	case NullType:
		return "null"
	case UndefinedType:
		return "undefined"
	case FloatType:
		return "float"
	case SimpleType:
		return "simple"
	default:
		return "unknown"
	}
}

// typeOf classifies an initial byte into its Type, independent of its
// exact additional-information encoding.
func typeOf(b byte) Type {
	switch getMajorType(b) {
	case majorTypeUint:
		return UintType
	case majorTypeNegInt:
		return NegIntType
	case majorTypeBytes:
		return BytesType
	case majorTypeText:
		return TextType
	case majorTypeArray:
		return ArrayType
	case majorTypeMap:
		return MapType
	case majorTypeTag:
		return TagType
	case majorTypeSimple:
		switch getAddInfo(b) {
		case simpleFalse, simpleTrue:
			return BoolType
		case simpleNull:
			return NullType
		case simpleUndefined:
			return UndefinedType
		case simpleFloat16, simpleFloat32, simpleFloat64:
			return FloatType
		default:
			return SimpleType
		}
	default:
		return UnknownType
	}
}
