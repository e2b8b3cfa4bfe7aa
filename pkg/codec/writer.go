package codec

import (
	"encoding/binary"
	"math"

	"github.com/Faultbox/maple-msb/pkg/encoding"
)

// DefaultWriterSize is the initial capacity of a writer created with size <= 0.
const DefaultWriterSize = 512

// Writer appends little-endian values to a buffer that doubles when full.
type Writer struct {
	buf    []byte
	length int
}

// NewWriter creates a writer with the given initial capacity.
func NewWriter(size int) *Writer {
	if size <= 0 {
		size = DefaultWriterSize
	}
	return &Writer{buf: make([]byte, size)}
}

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.length }

// Cap returns the backing capacity.
func (w *Writer) Cap() int { return len(w.buf) }

// Remaining returns the unused backing capacity.
func (w *Writer) Remaining() int { return len(w.buf) - w.length }

func (w *Writer) ensure(n int) {
	required := w.length + n
	if len(w.buf) >= required {
		return
	}

	size := len(w.buf) * 2
	if size == 0 {
		size = 1
	}
	for size < required {
		size *= 2
	}

	grown := make([]byte, size)
	copy(grown, w.buf[:w.length])
	w.buf = grown
}

// SeekTo sets the write length. Positions outside the capacity are ignored.
func (w *Writer) SeekTo(position int) {
	if position < 0 || position > len(w.buf) {
		return
	}
	w.length = position
}

// WriteBytes appends src.
func (w *Writer) WriteBytes(src []byte) {
	w.WriteBytesAt(src, 0, len(src))
}

// WriteBytesAt appends length bytes of src starting at offset.
func (w *Writer) WriteBytesAt(src []byte, offset, length int) {
	if length == 0 {
		return
	}
	w.ensure(length)
	copy(w.buf[w.length:], src[offset:offset+length])
	w.length += length
}

// WriteByte appends a single byte.
func (w *Writer) WriteByte(v byte) error {
	w.ensure(1)
	w.buf[w.length] = v
	w.length++
	return nil
}

// WriteBool appends 1 for true and 0 for false.
func (w *Writer) WriteBool(v bool) {
	var b byte
	if v {
		b = 1
	}
	_ = w.WriteByte(b)
}

// WriteUint16 appends a little-endian uint16.
func (w *Writer) WriteUint16(v uint16) {
	w.ensure(2)
	binary.LittleEndian.PutUint16(w.buf[w.length:], v)
	w.length += 2
}

// WriteShort appends a little-endian int16.
func (w *Writer) WriteShort(v int16) {
	w.WriteUint16(uint16(v))
}

// WriteUint32 appends a little-endian uint32.
func (w *Writer) WriteUint32(v uint32) {
	w.ensure(4)
	binary.LittleEndian.PutUint32(w.buf[w.length:], v)
	w.length += 4
}

// WriteInt appends a little-endian int32.
func (w *Writer) WriteInt(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteFloat appends a little-endian float32.
func (w *Writer) WriteFloat(v float32) {
	w.WriteUint32(math.Float32bits(v))
}

// WriteUint64 appends a little-endian uint64.
func (w *Writer) WriteUint64(v uint64) {
	w.ensure(8)
	binary.LittleEndian.PutUint64(w.buf[w.length:], v)
	w.length += 8
}

// WriteLong appends a little-endian int64.
func (w *Writer) WriteLong(v int64) {
	w.WriteUint64(uint64(v))
}

// WriteString appends a uint16 byte length followed by the UTF-8 bytes of s.
func (w *Writer) WriteString(s string) {
	w.WriteUint16(uint16(len(s)))
	w.WriteRawString(s)
}

// WriteRawString appends the UTF-8 bytes of s.
func (w *Writer) WriteRawString(s string) {
	if len(s) == 0 {
		return
	}
	w.ensure(len(s))
	copy(w.buf[w.length:], s)
	w.length += len(s)
}

// WriteUnicodeString appends a uint16 code unit count followed by s as UTF-16LE.
func (w *Writer) WriteUnicodeString(s string) {
	w.WriteUint16(uint16(encoding.UTF16Len(s)))
	w.WriteRawUnicodeString(s)
}

// WriteRawUnicodeString appends s as UTF-16LE.
func (w *Writer) WriteRawUnicodeString(s string) {
	w.WriteBytes(encoding.UTF8ToUTF16LE(s))
}

// Bytes returns the written bytes. The slice aliases the writer's buffer.
func (w *Writer) Bytes() []byte {
	return w.buf[:w.length]
}

// String returns the written bytes as a hex dump.
func (w *Writer) String() string {
	return encoding.HexString(w.Bytes(), false)
}
