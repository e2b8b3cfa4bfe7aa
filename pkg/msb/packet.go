package msb

import (
	"bytes"
	"fmt"
	"time"

	"github.com/Faultbox/maple-msb/pkg/codec"
	"github.com/Faultbox/maple-msb/pkg/encoding"
)

// Packet is one decoded capture frame with a read cursor over its payload.
// The payload is never modified.
type Packet struct {
	Timestamp time.Time
	Outbound  bool
	Build     uint32
	Locale    Locale
	Opcode    uint16

	// Set only for versions that record them.
	PreDecodeIV  uint32
	PostDecodeIV uint32

	payload []byte
	reader  *codec.Reader
}

// NewPacket creates a packet over payload.
func NewPacket(timestamp time.Time, outbound bool, build uint32, opcode uint16, payload []byte) *Packet {
	return &Packet{
		Timestamp: timestamp,
		Outbound:  outbound,
		Build:     build,
		Locale:    LocaleUnknown,
		Opcode:    opcode,
		payload:   payload,
		reader:    codec.NewReader(payload),
	}
}

// Position returns the cursor position.
func (p *Packet) Position() int { return p.reader.Position() }

// Len returns the payload length.
func (p *Packet) Len() int { return len(p.payload) }

// Available returns the number of unread payload bytes.
func (p *Packet) Available() int { return p.reader.Available() }

// Reset rewinds the cursor.
func (p *Packet) Reset() { p.reader.Reset() }

// Payload returns a copy of the payload.
func (p *Packet) Payload() []byte {
	return bytes.Clone(p.payload)
}

// Reader returns an independent codec reader over the payload.
func (p *Packet) Reader() *codec.Reader {
	return codec.NewReader(p.payload)
}

// Mode returns the first payload byte, or false for an empty payload.
func (p *Packet) Mode() (byte, bool) {
	if len(p.payload) == 0 {
		return 0, false
	}
	return p.payload[0], true
}

// Search returns the offset of the first occurrence of pattern at or after
// start, or -1.
func (p *Packet) Search(pattern []byte, start int) int {
	if len(pattern) == 0 || start < 0 || start > len(p.payload) {
		return -1
	}
	if i := bytes.Index(p.payload[start:], pattern); i >= 0 {
		return start + i
	}
	return -1
}

// ReadSegment returns up to length bytes from the cursor without advancing.
func (p *Packet) ReadSegment(length int) []byte {
	return p.Segment(p.reader.Position(), length)
}

// Segment returns up to length bytes starting at offset.
func (p *Packet) Segment(offset, length int) []byte {
	if offset < 0 || length <= 0 || offset >= len(p.payload) {
		return []byte{}
	}
	end := min(offset+length, len(p.payload))
	return bytes.Clone(p.payload[offset:end])
}

// ReadByte reads one byte and advances the cursor.
func (p *Packet) ReadByte() (byte, error) {
	return p.reader.ReadByte()
}

// ReadBytes reads count bytes and advances the cursor.
func (p *Packet) ReadBytes(count int) ([]byte, error) {
	return p.reader.ReadBytes(count)
}

// Skip moves the cursor by count bytes.
func (p *Packet) Skip(count int) error {
	return p.reader.Skip(count)
}

// Direction returns "OUT" or "IN ".
func (p *Packet) Direction() string {
	if p.Outbound {
		return "OUT"
	}
	return "IN "
}

// String formats the packet as "[timestamp][direction] [opcode] payload".
func (p *Packet) String() string {
	return fmt.Sprintf("[%s][%s] [%X] %s",
		p.Timestamp.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		p.Direction(), p.Opcode, encoding.HexString(p.payload, true))
}
