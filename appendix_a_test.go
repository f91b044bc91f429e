package cbor

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"testing"
)

// appendix_a_test.go drives the diagnostic pretty-printer against RFC 8949
// Appendix A's worked examples, loaded from testdata/appendix_a.json rather
// than hardcoded so the vector set can grow without touching Go source.

type appendixAVector struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
	Diag string `json:"diag"`
}

func loadAppendixA(t *testing.T) []appendixAVector {
	t.Helper()
	raw, err := os.ReadFile("testdata/appendix_a.json")
	if err != nil {
		t.Fatalf("reading testdata: %v", err)
	}
	var vectors []appendixAVector
	if err := json.Unmarshal(raw, &vectors); err != nil {
		t.Fatalf("parsing testdata: %v", err)
	}
	if len(vectors) == 0 {
		t.Fatal("no vectors loaded")
	}
	return vectors
}

func TestDiagAppendixAVectors(t *testing.T) {
	for _, v := range loadAppendixA(t) {
		t.Run(v.Name, func(t *testing.T) {
			b, err := hex.DecodeString(v.Hex)
			if err != nil {
				t.Fatalf("bad testdata hex: %v", err)
			}
			got, rest, err := DiagBytes(b)
			if err != nil {
				t.Fatalf("DiagBytes(%s): %v", v.Hex, err)
			}
			if err := RequireNoTrailingBytes(rest); err != nil {
				t.Fatalf("trailing bytes after %s: %v", v.Hex, err)
			}
			if got != v.Diag {
				t.Fatalf("got %q, want %q", got, v.Diag)
			}
		})
	}
}
