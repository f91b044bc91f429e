package cbor

import (
	"math/big"
	"testing"
	"time"
)

func TestMaxHeaderSizeMatchesWorstCaseEncode(t *testing.T) {
	cases := []struct {
		typ Type
		buf []byte
	}{
		{UintType, mustHex(t, "1bffffffffffffffff")},
		{BoolType, mustHex(t, "f5")},
		{NullType, mustHex(t, "f6")},
	}
	for _, c := range cases {
		if got := MaxHeaderSize(c.typ); got < len(c.buf) {
			t.Fatalf("MaxHeaderSize(%v) = %d, smaller than a real encoding of length %d", c.typ, got, len(c.buf))
		}
	}
}

func TestMaxIntUintFloatSize(t *testing.T) {
	if MaxIntSize(8) != Int8Size || MaxIntSize(16) != Int16Size || MaxIntSize(32) != Int32Size || MaxIntSize(64) != Int64Size {
		t.Fatal("MaxIntSize did not dispatch to the matching width constant")
	}
	if MaxUintSize(8) != Uint8Size || MaxUintSize(64) != Uint64Size {
		t.Fatal("MaxUintSize did not dispatch to the matching width constant")
	}
	if MaxFloatSize(16) != Float16Size || MaxFloatSize(32) != Float32Size || MaxFloatSize(64) != Float64Size {
		t.Fatal("MaxFloatSize did not dispatch to the matching width constant")
	}
}

func TestNewEncoderForIntNeverOverruns(t *testing.T) {
	for _, v := range []int64{0, -1, 1<<63 - 1, -1 << 63} {
		e := NewEncoderForInt()
		e.EncodeInt(v)
		if err := e.Err(); err != nil {
			t.Fatalf("EncodeInt(%d) overran a NewEncoderForInt buffer: %v", v, err)
		}
	}
}

func TestNewEncoderForDurationNeverOverruns(t *testing.T) {
	e := NewEncoderForDuration()
	e.EncodeInt(int64(time.Hour))
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestNewEncoderForRFC3339NeverOverruns(t *testing.T) {
	e := NewEncoderForRFC3339()
	e.EncodeRFC3339(time.Date(2013, 3, 21, 20, 4, 0, 999999999, time.UTC))
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestNewEncoderForEpochTimeNeverOverruns(t *testing.T) {
	e := NewEncoderForEpochTime()
	e.EncodeEpochTime(time.Date(2013, 3, 21, 20, 4, 0, 500, time.UTC))
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
}

func TestNewEncoderForBigIntNeverOverruns(t *testing.T) {
	n := new(big.Int)
	n.SetString("18446744073709551616", 10) // 2^64, 9 bytes big-endian
	e := NewEncoderForBigInt(9)
	e.EncodeBigInt(n)
	if err := e.Err(); err != nil {
		t.Fatal(err)
	}
}
