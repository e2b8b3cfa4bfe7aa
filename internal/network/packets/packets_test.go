package packets

import (
	"bytes"
	"testing"
)

func TestIgnored(t *testing.T) {
	tests := []struct {
		opcode   uint16
		outbound bool
		want     bool
	}{
		{0x11, false, true},
		{0x12, false, true},
		{0x0b, false, false},
		{0x0b, true, true},
		{0x12, true, true},
		{0x11, true, false},
		{0x00, false, false},
		{0x1a, true, false},
	}

	for _, tt := range tests {
		if got := Ignored(tt.opcode, tt.outbound); got != tt.want {
			t.Errorf("Ignored(%#x, %v): expected %v, got %v", tt.opcode, tt.outbound, tt.want, got)
		}
	}
}

func TestKey(t *testing.T) {
	if got := Key(0x11, true); got != "17-true" {
		t.Errorf("expected 17-true, got %s", got)
	}
	if got := Key(300, false); got != "300-false" {
		t.Errorf("expected 300-false, got %s", got)
	}

	opcode, outbound, err := ParseKey("300-false")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opcode != 300 || outbound {
		t.Errorf("expected 300/false, got %d/%v", opcode, outbound)
	}

	if _, _, err := ParseKey("nope"); err == nil {
		t.Error("expected error for malformed key")
	}
}

func TestOpcode(t *testing.T) {
	data := Encode(0x1234, []byte{0xaa})
	if !bytes.Equal(data, []byte{0x34, 0x12, 0xaa}) {
		t.Errorf("expected 34 12 aa, got % x", data)
	}

	opcode, ok := Opcode(data)
	if !ok || opcode != 0x1234 {
		t.Errorf("expected 0x1234, got %#x (%v)", opcode, ok)
	}

	if _, ok := Opcode([]byte{1}); ok {
		t.Error("expected short payload to have no opcode")
	}
}
