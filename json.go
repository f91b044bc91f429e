package cbor

import (
	"encoding/base64"
	"encoding/hex"
	"math"
	"strconv"
)

// jsonOpts configures the lossy CBOR-to-JSON mapping (spec §4.G).
type jsonOpts struct {
	metadata      bool
	stringifyKeys bool
	tagsToObjects bool
}

// JSONOption configures ToJSON/ToJSONBytes.
type JSONOption func(*jsonOpts)

// WithJSONMetadata emits "<key>$cbor" and "<key>$keycbordump" sibling
// keys alongside any map entry whose conversion was lossy, so the
// original CBOR can be partially reconstructed from the JSON output.
func WithJSONMetadata() JSONOption { return func(o *jsonOpts) { o.metadata = true } }

// WithJSONStringifyKeys allows non-text map keys by rendering them in
// diagnostic notation instead of failing with
// ErrJSONObjectKeyNotString.
func WithJSONStringifyKeys() JSONOption { return func(o *jsonOpts) { o.stringifyKeys = true } }

// WithJSONTagsToObjects wraps any tag this converter has no dedicated
// mapping for as {"tag<N>": <value>} instead of silently dropping it.
func WithJSONTagsToObjects() JSONOption { return func(o *jsonOpts) { o.tagsToObjects = true } }

// ToJSON converts the next CBOR item read from src into JSON.
func ToJSON(src Source, opts ...JSONOption) ([]byte, error) {
	o := &jsonOpts{}
	for _, f := range opts {
		f(o)
	}
	c := NewCursor(src)
	if err := c.Preparse(); err != nil {
		return nil, err
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := jsonItem(c, bb, o, 0); err != nil {
		return nil, err
	}
	out := make([]byte, bb.Len())
	copy(out, bb.Bytes())
	return out, nil
}

// ToJSONBytes converts the next CBOR item in b into JSON and returns the
// remaining, unconsumed bytes.
func ToJSONBytes(b []byte, opts ...JSONOption) ([]byte, []byte, error) {
	s := NewBufferSource(b)
	out, err := ToJSON(s, opts...)
	if err != nil {
		return nil, b, err
	}
	return out, b[s.Pos():], nil
}

func jsonItem(c *Cursor, buf *ByteBuffer, o *jsonOpts, depth int) error {
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
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		writeJSONString(buf, base64.RawURLEncoding.EncodeToString(data))
		return nil
	case TextType:
		data, err := c.DuplicateString()
		if err != nil {
			return err
		}
		writeJSONQuoted(buf, string(data))
		return nil
	case ArrayType:
		return jsonArray(c, buf, o, depth)
	case MapType:
		return jsonMap(c, buf, o, depth)
	case TagType:
		return jsonTag(c, buf, o, depth)
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
		writeJSONString(buf, "undefined")
		return nil
	case FloatType:
		return jsonFloat(c, buf)
	case SimpleType:
		writeJSONString(buf, "simple("+strconv.Itoa(int(c.Simple()))+")")
		return nil
	default:
		if c.isBreak {
			return c.fail(ErrUnexpectedBreak)
		}
		return c.fail(ErrIllegalType)
	}
}

func jsonFloat(c *Cursor, buf *ByteBuffer) error {
	var f float64
	switch c.AddInfo() {
	case simpleFloat16:
		f = float64(c.Float16())
	case simpleFloat32:
		f = float64(c.Float32())
	case simpleFloat64:
		f = c.Float64()
	default:
		return c.fail(ErrIllegalType)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return nil
	}
	buf.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	return nil
}

func jsonArray(c *Cursor, buf *ByteBuffer, o *jsonOpts, depth int) error {
	if err := c.EnterArray(); err != nil {
		return err
	}
	buf.WriteString("[")
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
			buf.WriteString(",")
		}
		first = false
		if err := jsonItem(c, buf, o, depth+1); err != nil {
			return err
		}
	}
	buf.WriteString("]")
	return c.LeaveContainer()
}

func jsonMap(c *Cursor, buf *ByteBuffer, o *jsonOpts, depth int) error {
	if err := c.EnterMap(); err != nil {
		return err
	}
	buf.WriteString("{")
	first := true
	var seen map[string]bool
	if c.strict {
		seen = make(map[string]bool)
	}
	for {
		done, err := c.ContainerDone()
		if err != nil {
			return err
		}
		if done {
			break
		}
		// key
		if err := c.Next(); err != nil {
			return err
		}
		key, keyDiag, isText, err := jsonMapKey(c, o)
		if err != nil {
			return err
		}
		if seen != nil {
			if seen[key] {
				return c.fail(ErrDuplicateMapKey)
			}
			seen[key] = true
		}
		if !first {
			buf.WriteString(",")
		}
		first = false
		writeJSONQuoted(buf, key)
		buf.WriteString(":")

		// value
		done, err = c.ContainerDone()
		if err != nil {
			return err
		}
		if done {
			return c.fail(ErrInternal)
		}
		if err := c.Next(); err != nil {
			return err
		}
		vType, vArg := c.Type(), c.arg
		if err := jsonItem(c, buf, o, depth+1); err != nil {
			return err
		}

		if o.metadata {
			if meta, ok := lossyValueMetadata(vType, vArg); ok {
				buf.WriteString(",")
				writeJSONQuoted(buf, key+"$cbor")
				buf.WriteString(":")
				buf.WriteString(meta)
			}
			if !isText {
				buf.WriteString(",")
				writeJSONQuoted(buf, key+"$keycbordump")
				buf.WriteString(":")
				writeJSONQuoted(buf, keyDiag)
			}
		}
	}
	buf.WriteString("}")
	return c.LeaveContainer()
}

// jsonMapKey renders the item the Cursor is positioned on (a map key) as
// a JSON object key string. For a text-string key this is the string
// itself. For any other key type, WithJSONStringifyKeys must be set, and
// the key is rendered in diagnostic notation (keyDiag duplicates that
// notation for the $keycbordump metadata sibling).
func jsonMapKey(c *Cursor, o *jsonOpts) (key, keyDiag string, isText bool, err error) {
	if c.Type() == TextType {
		data, err := c.DuplicateString()
		if err != nil {
			return "", "", true, err
		}
		return string(data), "", true, nil
	}
	if !o.stringifyKeys {
		return "", "", false, c.fail(ErrJSONObjectKeyNotString)
	}
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	if err := diagItem(c, bb, 0); err != nil {
		return "", "", false, err
	}
	d := string(bb.Bytes())
	out := make([]byte, len(bb.Bytes()))
	copy(out, bb.Bytes())
	return d, string(out), false, nil
}

// lossyValueMetadata builds the "$cbor" companion object for a map value
// whose JSON rendering lost information: an integer magnitude beyond the
// 2^53 mantissa a JSON number can round-trip through float64, or any kind
// JSON has no native representation for (tag, simple, undefined).
func lossyValueMetadata(t Type, arg uint64) (string, bool) {
	const maxSafeInt = uint64(1) << 53
	switch t {
	case UintType:
		if arg > maxSafeInt {
			return `{"t":"uint","v":"` + strconv.FormatUint(arg, 16) + `"}`, true
		}
	case NegIntType:
		if arg >= maxSafeInt {
			return `{"t":"negint","v":"` + strconv.FormatUint(arg, 16) + `"}`, true
		}
	case TagType:
		return `{"t":"tag","v":"` + strconv.FormatUint(arg, 10) + `"}`, true
	case SimpleType:
		return `{"t":"simple"}`, true
	case UndefinedType:
		return `{"t":"undefined"}`, true
	}
	return "", false
}

func jsonTag(c *Cursor, buf *ByteBuffer, o *jsonOpts, depth int) error {
	tag := c.Tag()
	switch tag {
	case tagPositiveBignum:
		return jsonTaggedBytes(c, buf, func(b []byte) string {
			return quoteJSON(base64.RawURLEncoding.EncodeToString(b))
		})
	case tagNegativeBignum:
		return jsonTaggedBytes(c, buf, func(b []byte) string {
			return quoteJSON("~" + base64.RawURLEncoding.EncodeToString(b))
		})
	case tagBase64URLHint:
		return jsonTaggedBytes(c, buf, func(b []byte) string {
			return quoteJSON(base64.RawURLEncoding.EncodeToString(b))
		})
	case tagBase64Hint:
		return jsonTaggedBytes(c, buf, func(b []byte) string {
			return quoteJSON(base64.StdEncoding.EncodeToString(b))
		})
	case tagBase16Hint:
		return jsonTaggedBytes(c, buf, func(b []byte) string {
			return quoteJSON(hex.EncodeToString(b))
		})
	case tagSelfDescribe:
		if err := c.Preparse(); err != nil {
			return err
		}
		return jsonItem(c, buf, o, depth+1)
	default:
		if err := c.Preparse(); err != nil {
			return err
		}
		if !o.tagsToObjects {
			return jsonItem(c, buf, o, depth+1)
		}
		buf.WriteString("{")
		writeJSONQuoted(buf, "tag"+strconv.FormatUint(tag, 10))
		buf.WriteString(":")
		if err := jsonItem(c, buf, o, depth+1); err != nil {
			return err
		}
		buf.WriteString("}")
		return nil
	}
}

func jsonTaggedBytes(c *Cursor, buf *ByteBuffer, encode func([]byte) string) error {
	if err := c.Preparse(); err != nil {
		return err
	}
	if c.Type() != BytesType {
		return c.fail(ErrInappropriateTagType)
	}
	data, err := c.DuplicateString()
	if err != nil {
		return err
	}
	buf.WriteString(encode(data))
	return nil
}

func quoteJSON(s string) string {
	bb := GetByteBuffer()
	defer PutByteBuffer(bb)
	writeJSONQuoted(bb, s)
	return string(bb.Bytes())
}

func writeJSONString(buf *ByteBuffer, s string) { writeJSONQuoted(buf, s) }

// writeJSONQuoted writes s as a double-quoted JSON string, escaping per
// RFC 8259 §7.
func writeJSONQuoted(buf *ByteBuffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				buf.WriteString("\\u")
				writeHex4(buf, uint16(r))
				continue
			}
			if r > 0xFFFF {
				rr := r - 0x10000
				hi := 0xD800 + (rr >> 10)
				lo := 0xDC00 + (rr & 0x3FF)
				buf.WriteString("\\u")
				writeHex4(buf, uint16(hi))
				buf.WriteString("\\u")
				writeHex4(buf, uint16(lo))
				continue
			}
			n := len(string(r))
			d := buf.Extend(n)
			copy(d, string(r))
		}
	}
	buf.WriteByte('"')
}
