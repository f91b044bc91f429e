package cbor

import (
	"encoding/hex"
	"testing"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex fixture %q: %v", s, err)
	}
	return b
}

func assertHex(t *testing.T, got []byte, want string) {
	t.Helper()
	if hex.EncodeToString(got) != want {
		t.Fatalf("got %x, want %s", got, want)
	}
}

func TestEncodeUintShortestForm(t *testing.T) {
	cases := []struct {
		v    uint64
		want string
	}{
		{0, "00"},
		{23, "17"},
		{24, "1818"},
		{255, "18ff"},
		{256, "190100"},
		{65535, "19ffff"},
		{65536, "1a00010000"},
		{4294967296, "1b0000000100000000"},
	}
	for _, c := range cases {
		buf := make([]byte, 16)
		e := NewEncoder(buf)
		e.EncodeUint(c.v)
		if err := e.Err(); err != nil {
			t.Fatalf("EncodeUint(%d): %v", c.v, err)
		}
		assertHex(t, e.Bytes(), c.want)
	}
}

func TestEncodeInt(t *testing.T) {
	cases := []struct {
		v    int64
		want string
	}{
		{-1, "20"},
		{-10, "29"},
		{-100, "3863"},
		{-1000, "3903e7"},
	}
	for _, c := range cases {
		buf := make([]byte, 16)
		e := NewEncoder(buf)
		e.EncodeInt(c.v)
		assertHex(t, e.Bytes(), c.want)
	}
}

func TestEncodeOverrunReportsExtraBytesNeeded(t *testing.T) {
	buf := make([]byte, 1)
	e := NewEncoder(buf)
	e.EncodeUint(256) // 3-byte encoding: 19 01 00
	err := e.Err()
	if err == nil {
		t.Fatal("expected overrun error")
	}
	n, ok := ExtraBytesNeeded(err)
	if !ok || n != 2 {
		t.Fatalf("ExtraBytesNeeded = %d, %v; want 2, true", n, ok)
	}
	if e.BytesWritten() != 1 {
		t.Fatalf("BytesWritten = %d, want 1", e.BytesWritten())
	}
}

func TestEncodeMeasurementMode(t *testing.T) {
	e := NewEncoder(nil)
	e.EncodeArrayHeader(2)
	e.EncodeUint(1)
	e.EncodeUint(2)
	if e.BytesWritten() != 0 {
		t.Fatalf("BytesWritten = %d, want 0 in measurement mode", e.BytesWritten())
	}
	if e.ExtraBytesNeeded() != 3 {
		t.Fatalf("ExtraBytesNeeded = %d, want 3", e.ExtraBytesNeeded())
	}
}

func TestEncodeIndefiniteArray(t *testing.T) {
	buf := make([]byte, 32)
	e := NewEncoder(buf)
	e.OpenArrayIndefinite()
	e.EncodeUint(1)
	e.EncodeUint(2)
	e.CloseContainer()
	assertHex(t, e.Bytes(), "9f0102ff")
}

func TestEncodeFloatDeterministicNarrowing(t *testing.T) {
	buf := make([]byte, 16)
	e := NewEncoder(buf)
	e.SetDeterministic(true)
	e.EncodeFloat(1.5)
	assertHex(t, e.Bytes(), "f93e00")
}

func TestEncodeBytesAndText(t *testing.T) {
	buf := make([]byte, 32)
	e := NewEncoder(buf)
	e.EncodeBytes([]byte{1, 2, 3, 4})
	assertHex(t, e.Bytes(), "4401020304")

	buf2 := make([]byte, 32)
	e2 := NewEncoder(buf2)
	e2.EncodeText("IETF")
	assertHex(t, e2.Bytes(), "6449455446")
}

func TestEncodeSimple(t *testing.T) {
	buf := make([]byte, 16)
	e := NewEncoder(buf)
	if err := e.EncodeSimple(16); err != nil {
		t.Fatal(err)
	}
	assertHex(t, e.Bytes(), "f0")

	buf2 := make([]byte, 16)
	e2 := NewEncoder(buf2)
	if err := e2.EncodeSimple(255); err != nil {
		t.Fatal(err)
	}
	assertHex(t, e2.Bytes(), "f8ff")
}

func TestEncodeSimpleRejectsReservedRange(t *testing.T) {
	buf := make([]byte, 16)
	e := NewEncoder(buf)
	if err := e.EncodeSimple(24); err != ErrIllegalSimple {
		t.Fatalf("got %v, want ErrIllegalSimple", err)
	}
}

func TestEncodeSimpleChecksDisabled(t *testing.T) {
	buf := make([]byte, 16)
	e := NewEncoder(buf, WithEncoderChecksDisabled())
	if err := e.EncodeSimple(24); err != nil {
		t.Fatal(err)
	}
	assertHex(t, e.Bytes(), "f818")
}
