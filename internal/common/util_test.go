package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"empty", 0},
		{"short", 8},
		{"token-sized", 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := MakeRandHexString(tt.size)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(s) != tt.size*2 {
				t.Errorf("length = %d, want %d", len(s), tt.size*2)
			}
			if _, err := hex.DecodeString(s); err != nil {
				t.Errorf("result is not valid hex: %v", err)
			}
		})
	}
}

func TestMakeRandHexStringUnique(t *testing.T) {
	a, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	b, err := MakeRandHexString(16)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("two generated strings are equal")
	}
}
