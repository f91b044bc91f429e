package cbor

import (
	"encoding/hex"
	"math"
	"strconv"
	"unicode/utf8"
)

// Diag renders the next CBOR item read from src in RFC 8949 §8 diagnostic
// notation.
func Diag(src Source) (string, error) {
	c := NewCursor(src)
	if err := c.Preparse(); err != nil {
		return "", err
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := diagItem(c, bb, 0); err != nil {
		return "", err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return string(out), nil
}

// DiagBytes renders the next CBOR item in b and returns the notation
// along with any trailing bytes after it.
func DiagBytes(b []byte) (string, []byte, error) {
	s := NewBufferSource(b)
	out, err := Diag(s)
	if err != nil {
		return "", b, err
	}
	return out, b[s.Pos():], nil
}

func diagItem(c *Cursor, buf *ByteBuffer, depth int) error {
	if depth > recursionLimit {
		return c.fail(ErrNestingTooDeep)
	}
	switch c.Type() {
	case UintType:
		buf.WriteString(strconv.FormatUint(c.Uint(), 10))
		return nil
	case NegIntType:
		buf.WriteString(negIntString(c.arg))
		return nil
	case BytesType:
		return diagBytes(c, buf)
	case TextType:
		return diagText(c, buf)
	case ArrayType:
		return diagArray(c, buf, depth)
	case MapType:
		return diagMap(c, buf, depth)
	case TagType:
		tag := c.Tag()
		buf.WriteString(strconv.FormatUint(tag, 10))
		buf.WriteString("(")
		if err := c.Preparse(); err != nil {
			return err
		}
		if err := diagItem(c, buf, depth+1); err != nil {
			return err
		}
		buf.WriteString(")")
		return nil
	case BoolType:
		if c.Bool() {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case NullType:
		buf.WriteString("null")
		return nil
	case UndefinedType:
		buf.WriteString("undefined")
		return nil
	case FloatType:
		return diagFloat(c, buf)
	case SimpleType:
		buf.WriteString("simple(")
		buf.WriteString(strconv.Itoa(int(c.Simple())))
		buf.WriteString(")")
		return nil
	default:
		if c.isBreak {
			return c.fail(ErrUnexpectedBreak)
		}
		return c.fail(ErrIllegalType)
	}
}

func diagBytes(c *Cursor, buf *ByteBuffer) error {
	if !c.IsIndefinite() {
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		writeHexQuoted(buf, data)
		return nil
	}
	buf.WriteString("(_ ")
	first := true
	for {
		if err := c.Preparse(); err != nil {
			return err
		}
		if c.IsBreak() {
			break
		}
		if c.Type() != BytesType || c.IsIndefinite() {
			return c.fail(ErrIllegalType)
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		writeHexQuoted(buf, data)
	}
	buf.WriteString(")")
	return nil
}

func writeHexQuoted(buf *ByteBuffer, data []byte) {
	buf.WriteString("h'")
	d := buf.Extend(hex.EncodedLen(len(data)))
	hex.Encode(d, data)
	buf.WriteString("'")
}

func diagText(c *Cursor, buf *ByteBuffer) error {
	if !c.IsIndefinite() {
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			return c.fail(ErrInvalidUTF8)
		}
		writeEscapedText(buf, string(data))
		return nil
	}
	buf.WriteString("(_ ")
	first := true
	for {
		if err := c.Preparse(); err != nil {
			return err
		}
		if c.IsBreak() {
			break
		}
		if c.Type() != TextType || c.IsIndefinite() {
			return c.fail(ErrIllegalType)
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		if !utf8.Valid(data) {
			return c.fail(ErrInvalidUTF8)
		}
		writeEscapedText(buf, string(data))
	}
	buf.WriteString(")")
	return nil
}

// writeEscapedText writes s as a double-quoted diagnostic-notation string,
// escaping control characters and the quote/backslash, and splitting any
// codepoint above U+FFFF into a UTF-16 surrogate pair escape.
func writeEscapedText(buf *ByteBuffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
			continue
		case '\\':
			buf.WriteString(`\\`)
			continue
		case '\n':
			buf.WriteString(`\n`)
			continue
		case '\r':
			buf.WriteString(`\r`)
			continue
		case '\t':
			buf.WriteString(`\t`)
			continue
		}
		switch {
		case r < 0x20:
			buf.WriteString("\\u")
			writeHex4(buf, uint16(r))
		case r > 0xFFFF:
			r -= 0x10000
			hi := 0xD800 + (r >> 10)
			lo := 0xDC00 + (r & 0x3FF)
			buf.WriteString("\\u")
			writeHex4(buf, uint16(hi))
			buf.WriteString("\\u")
			writeHex4(buf, uint16(lo))
		default:
			d := buf.Extend(utf8.RuneLen(r))
			utf8.EncodeRune(d, r)
		}
	}
	buf.WriteByte('"')
}

const hexDigits = "0123456789abcdef"

func writeHex4(buf *ByteBuffer, v uint16) {
	d := buf.Extend(4)
	d[0] = hexDigits[(v>>12)&0xf]
	d[1] = hexDigits[(v>>8)&0xf]
	d[2] = hexDigits[(v>>4)&0xf]
	d[3] = hexDigits[v&0xf]
}

func diagArray(c *Cursor, buf *ByteBuffer, depth int) error {
	indefinite := c.IsIndefinite()
	if err := c.EnterArray(); err != nil {
		return err
	}
	if indefinite {
		buf.WriteString("[_ ")
	} else {
		buf.WriteString("[")
	}
	first := true
	for {
		done, err := c.ContainerDone()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if err := c.Next(); err != nil {
			return err
		}
		if !first {
			buf.WriteString(", ")
		}
		first = false
		if err := diagItem(c, buf, depth+1); err != nil {
			return err
		}
	}
	buf.WriteString("]")
	return c.LeaveContainer()
}

func diagMap(c *Cursor, buf *ByteBuffer, depth int) error {
	indefinite := c.IsIndefinite()
	if err := c.EnterMap(); err != nil {
		return err
	}
	if indefinite {
		buf.WriteString("{_ ")
	} else {
		buf.WriteString("{")
	}
	first := true
	pairIndex := 0
	for {
		done, err := c.ContainerDone()
		if err != nil {
			return err
		}
		if done {
			break
		}
		if err := c.Next(); err != nil {
			return err
		}
		if pairIndex%2 == 0 {
			if !first {
				buf.WriteString(", ")
			}
			first = false
		} else {
			buf.WriteString(": ")
		}
		if err := diagItem(c, buf, depth+1); err != nil {
			return err
		}
		pairIndex++
	}
	buf.WriteString("}")
	return c.LeaveContainer()
}

func diagFloat(c *Cursor, buf *ByteBuffer) error {
	switch c.AddInfo() {
	case simpleFloat16:
		writeFloatDiag(buf, float64(c.Float16()), "f16")
	case simpleFloat32:
		writeFloatDiag(buf, float64(c.Float32()), "f")
	case simpleFloat64:
		writeFloatDiag(buf, c.Float64(), "")
	default:
		return c.fail(ErrIllegalType)
	}
	return nil
}

func writeFloatDiag(buf *ByteBuffer, f float64, suffix string) {
	switch {
	case math.IsNaN(f):
		buf.WriteString("nan")
		return
	case math.IsInf(f, +1):
		buf.WriteString("inf")
		return
	case math.IsInf(f, -1):
		buf.WriteString("-inf")
		return
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	buf.WriteString(s)
	buf.WriteString(suffix)
}
