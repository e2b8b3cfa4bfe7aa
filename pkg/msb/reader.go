// Package msb reads MSB packet captures: a version tag, connection metadata
// and a stream of timestamped packet frames.
package msb

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/Faultbox/maple-msb/pkg/codec"
)

const (
	// TicksAtEpoch is the number of 100ns ticks from 0001-01-01 to 1970-01-01.
	TicksAtEpoch = 621355968000000000
	// TicksPerMillisecond is the number of ticks in one millisecond.
	TicksPerMillisecond = 10000
)

var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Reader holds a parsed capture. Metadata is read when the reader is created;
// packets are parsed on the first call to Packets and cached.
type Reader struct {
	path     string
	r        *codec.Reader
	version  uint16
	metadata Metadata

	parsed  bool
	packets []*Packet
	err     error
}

// Open reads and parses the metadata of the capture at path. Zstandard
// compressed captures are decompressed transparently.
func Open(path string) (*Reader, error) {
	if path == "" {
		return nil, ErrEmptyPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	if bytes.HasPrefix(data, zstdMagic) {
		if data, err = decompress(data); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}

	reader, err := NewReader(data)
	if err != nil {
		return nil, err
	}
	reader.path = path
	return reader, nil
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return dec.DecodeAll(data, nil)
}

// NewReader parses the version tag and metadata from an in-memory capture.
func NewReader(data []byte) (*Reader, error) {
	r := codec.NewReader(data)

	version, err := r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("reading version: %w", err)
	}

	metadata, err := readMetadata(r, version)
	if err != nil {
		var unsupported *UnsupportedVersionError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("reading metadata: %w", err)
	}

	return &Reader{
		r:        r,
		version:  version,
		metadata: metadata,
	}, nil
}

// Path returns the file path the reader was opened from, if any.
func (m *Reader) Path() string { return m.path }

// Version returns the file version tag.
func (m *Reader) Version() uint16 { return m.version }

// Metadata returns the capture metadata.
func (m *Reader) Metadata() Metadata { return m.metadata }

// Packets parses every frame in the capture. The result, including a
// failure, is computed once and returned on every later call.
func (m *Reader) Packets() ([]*Packet, error) {
	if !m.parsed {
		m.packets, m.err = m.readPackets()
		m.parsed = true
	}
	return m.packets, m.err
}

// Each calls fn for every packet in order, stopping at the first error.
func (m *Reader) Each(fn func(*Packet) error) error {
	packets, err := m.Packets()
	if err != nil {
		return err
	}
	for _, p := range packets {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

func (m *Reader) readPackets() ([]*Packet, error) {
	layout := frameLayoutFor(m.version)

	var packets []*Packet
	for m.r.Available() > 0 {
		offset := m.r.Position()
		p, err := m.readFrame(layout)
		if err != nil {
			return nil, &PacketStreamError{Index: len(packets), Offset: offset, Err: err}
		}
		packets = append(packets, p)
	}
	return packets, nil
}

func (m *Reader) readFrame(layout frameLayout) (*Packet, error) {
	ticks, err := m.r.ReadUint64()
	if err != nil {
		return nil, fmt.Errorf("timestamp: %w", err)
	}

	var size int
	if layout.wideSize {
		v, err := m.r.ReadInt()
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		size = int(v)
	} else {
		v, err := m.r.ReadUint16()
		if err != nil {
			return nil, fmt.Errorf("size: %w", err)
		}
		size = int(v)
	}

	opcode, err := m.r.ReadUint16()
	if err != nil {
		return nil, fmt.Errorf("opcode: %w", err)
	}

	var outbound bool
	if layout.directionFlag {
		flag, err := m.r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("direction: %w", err)
		}
		outbound = flag != 0
	} else {
		outbound = size&0x8000 != 0
		size &= 0x7fff
	}

	payload, err := m.r.ReadBytes(size)
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}

	p := NewPacket(TicksToTime(ticks), outbound, m.metadata.Build, opcode, payload)
	p.Locale = m.metadata.Locale

	if layout.decodeIVs {
		if p.PreDecodeIV, err = m.r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("pre-decode iv: %w", err)
		}
		if p.PostDecodeIV, err = m.r.ReadUint32(); err != nil {
			return nil, fmt.Errorf("post-decode iv: %w", err)
		}
	}
	return p, nil
}

// TicksToTime converts 100ns ticks since 0001-01-01 to a UTC time with
// millisecond precision.
func TicksToTime(ticks uint64) time.Time {
	ms := (int64(ticks) - TicksAtEpoch) / TicksPerMillisecond
	return time.UnixMilli(ms).UTC()
}

// TimeToTicks is the inverse of TicksToTime.
func TimeToTicks(t time.Time) uint64 {
	return uint64(t.UnixMilli()*TicksPerMillisecond + TicksAtEpoch)
}
