// Package codec provides a cursor based little-endian reader and a growable
// writer over byte buffers.
package codec

import (
	"encoding/binary"
	"math"

	"github.com/Faultbox/maple-msb/pkg/encoding"
)

// Reader reads little-endian values from a byte buffer, advancing a cursor.
type Reader struct {
	buf      []byte
	length   int
	position int
}

// NewReader creates a reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return NewReaderAt(buf, 0)
}

// NewReaderAt creates a reader positioned at offset.
func NewReaderAt(buf []byte, offset int) *Reader {
	return &Reader{buf: buf, length: len(buf), position: offset}
}

// Len returns the total buffer length.
func (r *Reader) Len() int { return r.length }

// Position returns the cursor position.
func (r *Reader) Position() int { return r.position }

// Available returns the number of unread bytes.
func (r *Reader) Available() int { return r.length - r.position }

// Bytes returns the underlying buffer.
func (r *Reader) Bytes() []byte { return r.buf }

func (r *Reader) check(op string, width int) error {
	end := r.position + width
	if width < 0 || end > r.length || end < r.position {
		return &RangeError{Op: op, Position: r.position, Width: width, Length: r.length}
	}
	return nil
}

// Peek returns a copy of the next n bytes without advancing.
func (r *Reader) Peek(n int) ([]byte, error) {
	if err := r.check("peek", n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.position:r.position+n])
	return out, nil
}

// PeekShort returns the next int16 without advancing.
func (r *Reader) PeekShort() (int16, error) {
	if err := r.check("peek", 2); err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(r.buf[r.position:])), nil
}

// ReadBytes returns a copy of the next count bytes.
func (r *Reader) ReadBytes(count int) ([]byte, error) {
	if count == 0 {
		return []byte{}, nil
	}
	if err := r.check("read", count); err != nil {
		return nil, err
	}
	out := make([]byte, count)
	copy(out, r.buf[r.position:r.position+count])
	r.position += count
	return out, nil
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, error) {
	if err := r.check("read", 1); err != nil {
		return 0, err
	}
	b := r.buf[r.position]
	r.position++
	return b, nil
}

// ReadBool reads a byte and reports whether it is non-zero.
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	return b != 0, err
}

// ReadInt8 reads a signed byte.
func (r *Reader) ReadInt8() (int8, error) {
	b, err := r.ReadByte()
	return int8(b), err
}

// ReadUint16 reads a little-endian uint16.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.check("read", 2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.position:])
	r.position += 2
	return v, nil
}

// ReadShort reads a little-endian int16.
func (r *Reader) ReadShort() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 reads a little-endian uint32.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.check("read", 4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.position:])
	r.position += 4
	return v, nil
}

// ReadInt reads a little-endian int32.
func (r *Reader) ReadInt() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat reads a little-endian IEEE-754 float32.
func (r *Reader) ReadFloat() (float32, error) {
	v, err := r.ReadUint32()
	return math.Float32frombits(v), err
}

// ReadUint64 reads a little-endian uint64.
func (r *Reader) ReadUint64() (uint64, error) {
	if err := r.check("read", 8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.position:])
	r.position += 8
	return v, nil
}

// ReadLong reads a little-endian int64.
func (r *Reader) ReadLong() (int64, error) {
	v, err := r.ReadUint64()
	return int64(v), err
}

// ReadString reads a uint16 length followed by that many UTF-8 bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	return r.ReadRawString(int(n))
}

// ReadRawString reads length UTF-8 bytes.
func (r *Reader) ReadRawString(length int) (string, error) {
	b, err := r.ReadBytes(length)
	if err != nil {
		return "", err
	}
	return encoding.UTF8ToString(b), nil
}

// ReadUnicodeString reads a uint16 length followed by that many UTF-16LE code units.
func (r *Reader) ReadUnicodeString() (string, error) {
	n, err := r.ReadUint16()
	if err != nil {
		return "", err
	}
	return r.ReadRawUnicodeString(int(n))
}

// ReadRawUnicodeString reads length UTF-16LE code units.
func (r *Reader) ReadRawUnicodeString(length int) (string, error) {
	if length == 0 {
		return "", nil
	}
	if err := r.check("read", length*2); err != nil {
		return "", err
	}
	b := r.buf[r.position : r.position+length*2]
	r.position += length * 2
	return encoding.UTF16LEToUTF8(b), nil
}

// Skip moves the cursor by count bytes. Negative counts rewind.
func (r *Reader) Skip(count int) error {
	index := r.position + count
	if index > r.length || index < 0 {
		return &RangeError{Op: "skip", Position: r.position, Width: count, Length: r.length}
	}
	r.position = index
	return nil
}

// Reset rewinds the cursor to the start of the buffer.
func (r *Reader) Reset() {
	r.position = 0
}

// String returns the whole buffer as a hex dump.
func (r *Reader) String() string {
	return encoding.HexString(r.buf, false)
}
