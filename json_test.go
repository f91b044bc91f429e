package cbor

import "testing"

func jsonHex(t *testing.T, hexStr string, opts ...JSONOption) string {
	t.Helper()
	b := mustHex(t, hexStr)
	out, rest, err := ToJSONBytes(b, opts...)
	if err != nil {
		t.Fatalf("ToJSONBytes(%s): %v", hexStr, err)
	}
	if len(rest) != 0 {
		t.Fatalf("ToJSONBytes(%s): %d trailing bytes", hexStr, len(rest))
	}
	return string(out)
}

func TestJSONFloatNaNBecomesNull(t *testing.T) {
	// S8: fb 7ff8000000000000 -> null
	got := jsonHex(t, "fb7ff8000000000000")
	if got != "null" {
		t.Fatalf("got %q, want \"null\"", got)
	}
}

func TestJSONObjectKeyNotString(t *testing.T) {
	// S9: a1 01 02 -> error without stringify-keys
	b := mustHex(t, "a10102")
	_, _, err := ToJSONBytes(b)
	if err != ErrJSONObjectKeyNotString {
		t.Fatalf("got %v, want ErrJSONObjectKeyNotString", err)
	}
}

func TestJSONObjectKeyStringified(t *testing.T) {
	// S10: a1 01 02, with stringify keys -> {"1":2}
	got := jsonHex(t, "a10102", WithJSONStringifyKeys())
	if got != `{"1":2}` {
		t.Fatalf("got %q, want {\"1\":2}", got)
	}
}

func TestJSONByteStringBase64URL(t *testing.T) {
	got := jsonHex(t, "4401020304") // untagged byte string
	want := `"AQIDBA"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONTaggedBase16(t *testing.T) {
	// tag 23, byte string 01 02 03 04
	got := jsonHex(t, "d74401020304")
	want := `"01020304"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONTaggedBase64Padded(t *testing.T) {
	// tag 22, byte string 01 02 03
	got := jsonHex(t, "d643010203")
	want := `"AQID"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONNegativeBignumTilde(t *testing.T) {
	// tag 3, byte string 01 02
	got := jsonHex(t, "c3420102")
	want := `"~AQI"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONArrayAndMap(t *testing.T) {
	if got := jsonHex(t, "83010203"); got != "[1,2,3]" {
		t.Fatalf("got %q, want [1,2,3]", got)
	}
	// {"a": 1, "b": 2}
	if got := jsonHex(t, "a2616101616202"); got != `{"a":1,"b":2}` {
		t.Fatalf("got %q", got)
	}
}

func TestJSONTagDroppedByDefault(t *testing.T) {
	got := jsonHex(t, "c101") // tag 1 wrapping uint 1
	if got != "1" {
		t.Fatalf("got %q, want \"1\"", got)
	}
}

func TestJSONTagToObject(t *testing.T) {
	got := jsonHex(t, "c101", WithJSONTagsToObjects())
	if got != `{"tag1":1}` {
		t.Fatalf("got %q, want {\"tag1\":1}", got)
	}
}

func TestJSONSimpleAndUndefined(t *testing.T) {
	if got := jsonHex(t, "f8ff"); got != `"simple(255)"` {
		t.Fatalf("simple: got %q", got)
	}
	if got := jsonHex(t, "f7"); got != `"undefined"` {
		t.Fatalf("undefined: got %q", got)
	}
	if got := jsonHex(t, "f6"); got != "null" {
		t.Fatalf("null: got %q", got)
	}
}

func TestJSONMetadataForLossyTag(t *testing.T) {
	// {"a": 1(1)} with metadata: the tagged value is lossy (JSON has no
	// tag concept), so a companion "a$cbor" member records it.
	got := jsonHex(t, "a16161c101", WithJSONMetadata())
	want := `{"a":1,"a$cbor":{"t":"tag","v":"1"}}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestJSONMetadataForNonStringKey(t *testing.T) {
	// a1 01 02 with stringify-keys and metadata: key "1" gets a
	// "1$keycbordump" sibling marking it as a stringified non-text key.
	got := jsonHex(t, "a10102", WithJSONStringifyKeys(), WithJSONMetadata())
	want := `{"1":2,"1$keycbordump":"1"}`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
