package codec

import (
	"bytes"
	"errors"
	"math"
	"testing"
)

func TestReadShortLittleEndian(t *testing.T) {
	r := NewReader([]byte{0x01, 0x00})

	v, err := r.ReadShort()
	if err != nil {
		t.Fatalf("ReadShort failed: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %d", v)
	}
	if r.Available() != 0 {
		t.Errorf("expected 0 available, got %d", r.Available())
	}
}

func TestReadShortTruncated(t *testing.T) {
	r := NewReader([]byte{0x01})

	_, err := r.ReadShort()
	if err == nil {
		t.Fatal("expected error reading short from 1 byte")
	}

	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected *RangeError, got %T", err)
	}
	if !errors.Is(err, ErrOutOfRange) {
		t.Error("expected errors.Is(err, ErrOutOfRange)")
	}
	if r.Position() != 0 {
		t.Errorf("failed read must not advance, position %d", r.Position())
	}
}

func TestReadFixedWidth(t *testing.T) {
	w := NewWriter(4)
	_ = w.WriteByte(0xfe)
	w.WriteBool(true)
	w.WriteShort(-2)
	w.WriteUint16(0xbeef)
	w.WriteInt(-100000)
	w.WriteUint32(0xdeadbeef)
	w.WriteFloat(1.5)
	w.WriteLong(-1 << 40)
	w.WriteUint64(math.MaxUint64)

	r := NewReader(w.Bytes())

	if b, _ := r.ReadByte(); b != 0xfe {
		t.Errorf("expected byte 0xfe, got 0x%x", b)
	}
	if b, _ := r.ReadBool(); !b {
		t.Error("expected true")
	}
	if v, _ := r.ReadShort(); v != -2 {
		t.Errorf("expected short -2, got %d", v)
	}
	if v, _ := r.ReadUint16(); v != 0xbeef {
		t.Errorf("expected 0xbeef, got 0x%x", v)
	}
	if v, _ := r.ReadInt(); v != -100000 {
		t.Errorf("expected int -100000, got %d", v)
	}
	if v, _ := r.ReadUint32(); v != 0xdeadbeef {
		t.Errorf("expected 0xdeadbeef, got 0x%x", v)
	}
	if v, _ := r.ReadFloat(); v != 1.5 {
		t.Errorf("expected float 1.5, got %f", v)
	}
	if v, _ := r.ReadLong(); v != -1<<40 {
		t.Errorf("expected long %d, got %d", int64(-1<<40), v)
	}
	if v, _ := r.ReadUint64(); v != math.MaxUint64 {
		t.Errorf("expected max uint64, got %d", v)
	}
	if r.Available() != 0 {
		t.Errorf("expected buffer fully consumed, %d left", r.Available())
	}
}

func TestPeekDoesNotAdvance(t *testing.T) {
	r := NewReader([]byte{0x34, 0x12, 0xff})

	b, err := r.Peek(2)
	if err != nil {
		t.Fatalf("Peek failed: %v", err)
	}
	if !bytes.Equal(b, []byte{0x34, 0x12}) {
		t.Errorf("unexpected peek result % x", b)
	}
	v, _ := r.PeekShort()
	if v != 0x1234 {
		t.Errorf("expected 0x1234, got 0x%x", v)
	}
	if r.Position() != 0 {
		t.Errorf("expected position 0, got %d", r.Position())
	}
	if _, err := r.Peek(4); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range peek, got %v", err)
	}
}

func TestReadBytesCopies(t *testing.T) {
	src := []byte{1, 2, 3, 4}
	r := NewReader(src)

	b, err := r.ReadBytes(3)
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	b[0] = 99
	if src[0] != 1 {
		t.Error("ReadBytes must return a copy")
	}

	empty, err := r.ReadBytes(0)
	if err != nil || len(empty) != 0 {
		t.Errorf("expected empty read, got %v %v", empty, err)
	}
	if _, err := r.ReadBytes(2); err == nil {
		t.Error("expected error reading past end")
	}
	if _, err := r.ReadBytes(-1); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestReadStrings(t *testing.T) {
	w := NewWriter(0)
	w.WriteString("maple")
	w.WriteUnicodeString("단풍")
	w.WriteString("")

	r := NewReader(w.Bytes())

	s, err := r.ReadString()
	if err != nil || s != "maple" {
		t.Errorf("expected 'maple', got %q (%v)", s, err)
	}
	u, err := r.ReadUnicodeString()
	if err != nil || u != "단풍" {
		t.Errorf("expected '단풍', got %q (%v)", u, err)
	}
	e, err := r.ReadString()
	if err != nil || e != "" {
		t.Errorf("expected empty string, got %q (%v)", e, err)
	}
}

func TestReadStringTruncated(t *testing.T) {
	// Declares 10 bytes but carries 2.
	r := NewReader([]byte{0x0a, 0x00, 'h', 'i'})
	if _, err := r.ReadString(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range, got %v", err)
	}

	r = NewReader([]byte{0x02, 0x00, 'h', 0x00})
	if _, err := r.ReadUnicodeString(); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("expected out of range for unicode string, got %v", err)
	}
}

func TestSkip(t *testing.T) {
	r := NewReader([]byte{1, 2, 3, 4})

	if err := r.Skip(3); err != nil {
		t.Fatalf("Skip failed: %v", err)
	}
	if err := r.Skip(-2); err != nil {
		t.Fatalf("backward Skip failed: %v", err)
	}
	if r.Position() != 1 {
		t.Errorf("expected position 1, got %d", r.Position())
	}
	if err := r.Skip(-2); err == nil {
		t.Error("expected error skipping before start")
	}
	if err := r.Skip(4); err == nil {
		t.Error("expected error skipping past end")
	}
	if err := r.Skip(3); err != nil {
		t.Errorf("skip to exact end should succeed: %v", err)
	}

	r.Reset()
	if r.Position() != 0 {
		t.Errorf("expected position 0 after Reset, got %d", r.Position())
	}
}

func TestReaderAtOffset(t *testing.T) {
	r := NewReaderAt([]byte{0xaa, 0xbb, 0x02, 0x00}, 2)
	v, err := r.ReadShort()
	if err != nil || v != 2 {
		t.Errorf("expected 2, got %d (%v)", v, err)
	}
}

func TestReaderString(t *testing.T) {
	r := NewReader([]byte{0x00, 0x1f})
	if r.String() != "00 1f" {
		t.Errorf("expected '00 1f', got %q", r.String())
	}
}
