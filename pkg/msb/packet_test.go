package msb

import (
	"bytes"
	"testing"
)

func newTestPacket(payload []byte) *Packet {
	return NewPacket(testTime, true, 95, 0x1a, payload)
}

func TestPacketCursor(t *testing.T) {
	p := newTestPacket([]byte{1, 2, 3, 4, 5})

	b, err := p.ReadByte()
	if err != nil || b != 1 {
		t.Fatalf("expected 1, got %d (%v)", b, err)
	}
	if p.Position() != 1 || p.Available() != 4 {
		t.Errorf("expected position 1 with 4 available, got %d/%d", p.Position(), p.Available())
	}

	if err := p.Skip(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := p.ReadBytes(2)
	if err != nil || !bytes.Equal(got, []byte{4, 5}) {
		t.Errorf("expected [4 5], got %v (%v)", got, err)
	}

	if _, err := p.ReadByte(); err == nil {
		t.Error("expected error reading past the end")
	}

	p.Reset()
	if p.Position() != 0 {
		t.Errorf("expected position 0 after reset, got %d", p.Position())
	}
}

func TestPacketSearch(t *testing.T) {
	p := newTestPacket([]byte{0xaa, 0xbb, 0xcc, 0xaa, 0xbb})

	tests := []struct {
		pattern []byte
		start   int
		want    int
	}{
		{[]byte{0xaa, 0xbb}, 0, 0},
		{[]byte{0xaa, 0xbb}, 1, 3},
		{[]byte{0xcc}, 0, 2},
		{[]byte{0xdd}, 0, -1},
		{[]byte{0xbb, 0xcc, 0xaa, 0xbb, 0x00}, 0, -1},
		{[]byte{}, 0, -1},
		{[]byte{0xaa}, 5, -1},
		{[]byte{0xaa}, -1, -1},
	}

	for _, tt := range tests {
		if got := p.Search(tt.pattern, tt.start); got != tt.want {
			t.Errorf("Search(% x, %d): expected %d, got %d", tt.pattern, tt.start, tt.want, got)
		}
	}
}

func TestPacketSegment(t *testing.T) {
	p := newTestPacket([]byte{1, 2, 3, 4})

	if got := p.Segment(1, 2); !bytes.Equal(got, []byte{2, 3}) {
		t.Errorf("expected [2 3], got %v", got)
	}
	if got := p.Segment(2, 10); !bytes.Equal(got, []byte{3, 4}) {
		t.Errorf("expected clamped [3 4], got %v", got)
	}
	if got := p.Segment(4, 1); len(got) != 0 {
		t.Errorf("expected empty segment, got %v", got)
	}

	p.Skip(3)
	if got := p.ReadSegment(5); !bytes.Equal(got, []byte{4}) {
		t.Errorf("expected [4], got %v", got)
	}
	if p.Position() != 3 {
		t.Errorf("expected ReadSegment to leave position at 3, got %d", p.Position())
	}
}

func TestPacketPayloadIsCopy(t *testing.T) {
	p := newTestPacket([]byte{9, 8})
	payload := p.Payload()
	payload[0] = 0

	if got := p.Payload(); got[0] != 9 {
		t.Errorf("expected payload to be unchanged, got %v", got)
	}

	mode, ok := p.Mode()
	if !ok || mode != 9 {
		t.Errorf("expected mode 9, got %d (%v)", mode, ok)
	}
	if _, ok := newTestPacket(nil).Mode(); ok {
		t.Error("expected no mode for empty payload")
	}
}

func TestPacketString(t *testing.T) {
	p := newTestPacket([]byte{0x01, 0xab})
	want := "[2020-01-01T00:00:00.123Z][OUT] [1A] 01 AB"
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	p.Outbound = false
	want = "[2020-01-01T00:00:00.123Z][IN ] [1A] 01 AB"
	if got := p.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestVersionString(t *testing.T) {
	if got := VersionString(0x2014); got != "2.0.1.4" {
		t.Errorf("expected 2.0.1.4, got %s", got)
	}
	if got := LocaleEurope.String(); got != "Europe" {
		t.Errorf("expected Europe, got %s", got)
	}
	if got := Locale(42).String(); got != "Locale(42)" {
		t.Errorf("expected Locale(42), got %s", got)
	}
}
