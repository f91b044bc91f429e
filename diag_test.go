package cbor

import "testing"

func diagHex(t *testing.T, hexStr string) string {
	t.Helper()
	b := mustHex(t, hexStr)
	out, rest, err := DiagBytes(b)
	if err != nil {
		t.Fatalf("DiagBytes(%s): %v", hexStr, err)
	}
	if len(rest) != 0 {
		t.Fatalf("DiagBytes(%s): %d trailing bytes", hexStr, len(rest))
	}
	return out
}

func TestDiagScenarios(t *testing.T) {
	cases := []struct {
		name string
		hex  string
		want string
	}{
		{"S1 one-byte-follow uint", "1818", "24"},
		{"S2 max-magnitude negint", "3bffffffffffffffff", "-18446744073709551616"},
		{"S3 definite array", "83010203", "[1, 2, 3]"},
		{"S4 indefinite map", "bf63666f6f01ff", `{_ "foo": 1}`},
		{"S5 tagged uint", "c11a554bbfd3", "1(1431027667)"},
		{"negative one", "20", "-1"},
		{"empty indefinite array", "9fff", "[_ ]"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := diagHex(t, c.hex)
			if got != c.want {
				t.Fatalf("diag(%s) = %q, want %q", c.hex, got, c.want)
			}
		})
	}
}

func TestDiagByteString(t *testing.T) {
	got := diagHex(t, "4401020304")
	want := "h'01020304'"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagChunkedByteStringWithEmptyChunk(t *testing.T) {
	// (_ h'0102', h'', h'0304')
	got := diagHex(t, "5f42010240420304ff")
	want := "(_ h'0102', h'', h'0304')"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagFloatNaNAllWidths(t *testing.T) {
	cases := []string{
		"f97e00", // half NaN
		"fa7fc00000",
		"fb7ff8000000000000",
	}
	for _, h := range cases {
		got := diagHex(t, h)
		if got != "nan" {
			t.Fatalf("diag(%s) = %q, want \"nan\"", h, got)
		}
	}
}

func TestDiagUnexpectedBreakAtTopLevel(t *testing.T) {
	s := NewBufferSource(mustHex(t, "ff"))
	_, err := Diag(s)
	if err == nil {
		t.Fatal("expected an error decoding a bare break as a top-level item")
	}
}

func TestDiagTextStringEscaping(t *testing.T) {
	// text string "a\nbc"
	got := diagHex(t, "64610a6263")
	want := `"a\nbc"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagTextStringSurrogatePair(t *testing.T) {
	// U+1F600 GRINNING FACE, UTF-8: f0 9f 98 80, above the BMP so it must
	// come out as a UTF-16 surrogate pair escape rather than the raw rune.
	got := diagHex(t, "64f09f9880")
	want := "\"\\ud83d\\ude00\""
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestDiagInvalidUTF8(t *testing.T) {
	s := NewBufferSource(mustHex(t, "61ff")) // text string, 1 byte, invalid UTF-8
	_, err := Diag(s)
	if err != ErrInvalidUTF8 {
		t.Fatalf("got %v, want ErrInvalidUTF8", err)
	}
}
