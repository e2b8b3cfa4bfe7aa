package encoding

import (
	"bytes"
	"testing"
)

func TestUTF16LERoundTrip(t *testing.T) {
	tests := []string{"", "hello", "메이플", "a\U0001F600b"}

	for _, s := range tests {
		encoded := UTF8ToUTF16LE(s)
		if len(encoded) != UTF16Len(s)*2 {
			t.Errorf("%q: expected %d bytes, got %d", s, UTF16Len(s)*2, len(encoded))
		}
		if got := UTF16LEToUTF8(encoded); got != s {
			t.Errorf("expected %q, got %q", s, got)
		}
	}
}

func TestUTF8ToUTF16LELayout(t *testing.T) {
	got := UTF8ToUTF16LE("AB")
	want := []byte{0x41, 0x00, 0x42, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("expected % x, got % x", want, got)
	}
}

func TestUTF16Len(t *testing.T) {
	if n := UTF16Len("abc"); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if n := UTF16Len("\U0001F600"); n != 2 {
		t.Errorf("expected surrogate pair length 2, got %d", n)
	}
}

func TestUTF8ToString(t *testing.T) {
	if got := UTF8ToString([]byte("ok")); got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
	if got := UTF8ToString([]byte{'a', 0xff}); got != "a�" {
		t.Errorf("expected replacement char, got %q", got)
	}
}

func TestTrimNullString(t *testing.T) {
	if got := TrimNullString([]byte("127.0.0.1\x00\x00")); got != "127.0.0.1" {
		t.Errorf("expected 127.0.0.1, got %q", got)
	}
}

func TestHexString(t *testing.T) {
	data := []byte{0x01, 0xab, 0xff}
	if got := HexString(data, false); got != "01 ab ff" {
		t.Errorf("expected '01 ab ff', got %q", got)
	}
	if got := HexString(data, true); got != "01 AB FF" {
		t.Errorf("expected '01 AB FF', got %q", got)
	}
	if got := HexString(nil, true); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}
