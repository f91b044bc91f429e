package cbor

import "github.com/x448/float16"

// float16ToFloat32 converts an IEEE 754 half-precision bit pattern to
// float32, including NaN, infinity and subnormal handling.
func float16ToFloat32(bits uint16) float32 {
	return float16.Frombits(bits).Float32()
}

// float32ToFloat16 converts a float32 to its nearest IEEE 754 half-precision
// representation. ok is false when the conversion is lossy (the value does
// not fit exactly in a float16), which callers use to decide whether a
// wider encoding is required to preserve the value.
func float32ToFloat16(f float32) (bits uint16, ok bool) {
	h := float16.Fromfloat32(f)
	ok = h.Float32() == f || (f != f && h.IsNaN())
	return uint16(h), ok
}
