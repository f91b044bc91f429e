package cbor

import (
	"math"
	"math/big"
	"time"
)

// tags.go adds typed convenience helpers over the semantic tags RFC 8949
// §3.4 defines beyond the three byte-string formatting hints (21/22/23)
// the JSON converter already understands: RFC3339 and epoch datetimes,
// positive/negative bignums, and decimal fraction/bigfloat pairs. These
// sit on top of the core Encoder/Cursor primitives; none of them is
// required to round-trip a plain CBOR document.

// NewEncoderForRFC3339 returns an Encoder whose buffer is sized for a
// single EncodeRFC3339 call (size.go's TimeSize).
func NewEncoderForRFC3339() *Encoder { return NewEncoder(make([]byte, TimeSize)) }

// NewEncoderForEpochTime returns an Encoder whose buffer is sized for a
// single EncodeEpochTime call, which writes an int64 or float64 payload
// depending on whether the time carries sub-second precision.
func NewEncoderForEpochTime() *Encoder {
	payload := MaxIntSize(64)
	if f := MaxFloatSize(64); f > payload {
		payload = f
	}
	return NewEncoder(make([]byte, TagHeaderSize+payload))
}

// NewEncoderForBigInt returns an Encoder whose buffer is sized for a
// single EncodeBigInt call whose magnitude's big-endian byte form is at
// most payloadLen bytes.
func NewEncoderForBigInt(payloadLen int) *Encoder {
	return NewEncoder(make([]byte, TagHeaderSize+BytesPrefixSize+payloadLen))
}

// EncodeRFC3339 encodes t as tag 0 (standard date/time string).
func (e *Encoder) EncodeRFC3339(t time.Time) {
	e.EncodeTag(tagDateTimeString)
	e.EncodeText(t.UTC().Format(time.RFC3339Nano))
}

// EncodeEpochTime encodes t as tag 1 (epoch-based date/time), using a
// float64 payload when sub-second precision is present.
func (e *Encoder) EncodeEpochTime(t time.Time) {
	e.EncodeTag(tagDateTimeEpoch)
	secs := float64(t.UnixNano()) / 1e9
	if t.Nanosecond() == 0 {
		e.EncodeInt(t.Unix())
		return
	}
	e.EncodeFloat64(secs)
}

// EncodeBigInt encodes n as tag 2 or tag 3 (positive/negative bignum).
func (e *Encoder) EncodeBigInt(n *big.Int) {
	if n.Sign() >= 0 {
		e.EncodeTag(tagPositiveBignum)
		e.EncodeBytes(n.Bytes())
		return
	}
	e.EncodeTag(tagNegativeBignum)
	m := new(big.Int).Neg(n)
	m.Sub(m, big.NewInt(1))
	e.EncodeBytes(m.Bytes())
}

// DecodeBigInt reads a tag 2/3 bignum the Cursor is positioned on (the
// tag itself, not yet its content).
func (c *Cursor) DecodeBigInt() (*big.Int, error) {
	if c.Type() != TagType {
		return nil, c.fail(ErrIllegalType)
	}
	tag := c.Tag()
	if tag != tagPositiveBignum && tag != tagNegativeBignum {
		return nil, c.fail(ErrInappropriateTagType)
	}
	if err := c.Preparse(); err != nil {
		return nil, err
	}
	if c.Type() != BytesType {
		return nil, c.fail(ErrInappropriateTagType)
	}
	data, err := c.DuplicateString()
	if err != nil {
		return nil, err
	}
	n := new(big.Int).SetBytes(data)
	if tag == tagNegativeBignum {
		n.Add(n, big.NewInt(1))
		n.Neg(n)
	}
	return n, nil
}

// EncodeDecimalFraction encodes tag 4 (RFC 8949 §3.4.4): mantissa *
// 10^exponent, as the required 2-element array [exponent, mantissa].
func (e *Encoder) EncodeDecimalFraction(mantissa *big.Int, exponent int64) {
	e.EncodeTag(tagDecimalFrac)
	e.encodeFractionArray(mantissa, exponent)
}

// EncodeBigFloat encodes tag 5 (RFC 8949 §3.4.5): mantissa * 2^exponent,
// as the required 2-element array [exponent, mantissa].
func (e *Encoder) EncodeBigFloat(mantissa *big.Int, exponent int64) {
	e.EncodeTag(tagBigFloat)
	e.encodeFractionArray(mantissa, exponent)
}

// encodeFractionArray writes the [exponent, mantissa] array body shared by
// tag 4 and tag 5, encoding the mantissa as a plain integer when it fits in
// an int64 and falling back to a tag 2/3 bignum otherwise.
func (e *Encoder) encodeFractionArray(mantissa *big.Int, exponent int64) {
	e.EncodeArrayHeader(2)
	e.EncodeInt(exponent)
	if mantissa.IsInt64() {
		e.EncodeInt(mantissa.Int64())
		return
	}
	e.EncodeBigInt(mantissa)
}

// DecodeDecimalFraction reads a tag 4 decimal fraction the Cursor is
// positioned on (the tag itself), returning the mantissa and exponent of
// mantissa * 10^exponent.
func (c *Cursor) DecodeDecimalFraction() (mantissa *big.Int, exponent int64, err error) {
	if c.Type() != TagType || c.Tag() != tagDecimalFrac {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	return c.decodeFractionArray()
}

// DecodeBigFloat reads a tag 5 bigfloat the Cursor is positioned on (the
// tag itself), returning the mantissa and exponent of mantissa * 2^exponent.
func (c *Cursor) DecodeBigFloat() (mantissa *big.Int, exponent int64, err error) {
	if c.Type() != TagType || c.Tag() != tagBigFloat {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	return c.decodeFractionArray()
}

// decodeFractionArray reads the [exponent, mantissa] array body shared by
// tag 4 and tag 5, assuming the Cursor is positioned on the tag itself.
func (c *Cursor) decodeFractionArray() (*big.Int, int64, error) {
	if err := c.Preparse(); err != nil {
		return nil, 0, err
	}
	if c.Type() != ArrayType || c.IsIndefinite() || c.Len() != 2 {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	if err := c.EnterArray(); err != nil {
		return nil, 0, err
	}

	done, err := c.ContainerDone()
	if err != nil {
		return nil, 0, err
	}
	if done {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	if err := c.Next(); err != nil {
		return nil, 0, err
	}
	exponent, err := c.decodeFractionExponent()
	if err != nil {
		return nil, 0, err
	}

	done, err = c.ContainerDone()
	if err != nil {
		return nil, 0, err
	}
	if done {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	if err := c.Next(); err != nil {
		return nil, 0, err
	}
	mantissa, err := c.decodeFractionMantissa()
	if err != nil {
		return nil, 0, err
	}

	done, err = c.ContainerDone()
	if err != nil {
		return nil, 0, err
	}
	if !done {
		return nil, 0, c.fail(ErrInappropriateTagType)
	}
	return mantissa, exponent, c.LeaveContainer()
}

func (c *Cursor) decodeFractionExponent() (int64, error) {
	switch c.Type() {
	case UintType:
		if c.arg > math.MaxInt64 {
			return 0, c.fail(ErrDataTooLarge)
		}
		return int64(c.arg), nil
	case NegIntType:
		return c.Int()
	default:
		return 0, c.fail(ErrInappropriateTagType)
	}
}

func (c *Cursor) decodeFractionMantissa() (*big.Int, error) {
	switch c.Type() {
	case UintType:
		return new(big.Int).SetUint64(c.arg), nil
	case NegIntType:
		n := new(big.Int).SetUint64(c.arg)
		n.Add(n, big.NewInt(1))
		n.Neg(n)
		return n, nil
	case TagType:
		return c.DecodeBigInt()
	default:
		return nil, c.fail(ErrInappropriateTagType)
	}
}

// DecodeRFC3339 reads a tag 0 date/time string the Cursor is positioned
// on (the tag itself).
func (c *Cursor) DecodeRFC3339() (time.Time, error) {
	if c.Type() != TagType || c.Tag() != tagDateTimeString {
		return time.Time{}, c.fail(ErrInappropriateTagType)
	}
	if err := c.Preparse(); err != nil {
		return time.Time{}, err
	}
	if c.Type() != TextType {
		return time.Time{}, c.fail(ErrInappropriateTagType)
	}
	data, err := c.DuplicateString()
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, string(data))
}

// StripSelfDescribe reports whether the item the Cursor is positioned on
// is the self-describe-CBOR tag (55799) and, if so, Preparses past it so
// the next call sees the actual tagged value.
func (c *Cursor) StripSelfDescribe() (bool, error) {
	if c.Type() != TagType || c.Tag() != tagSelfDescribe {
		return false, nil
	}
	if err := c.Preparse(); err != nil {
		return false, err
	}
	return true, nil
}

// EncodeSelfDescribe writes the self-describe-CBOR tag (55799); the
// actual document follows immediately.
func (e *Encoder) EncodeSelfDescribe() { e.EncodeTag(tagSelfDescribe) }
