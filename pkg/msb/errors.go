package msb

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is matched by every UnsupportedVersionError.
	ErrUnsupportedVersion = errors.New("msb: unsupported version")
	// ErrPacketStream is matched by every PacketStreamError.
	ErrPacketStream = errors.New("msb: packet stream")
	// ErrEmptyPath is returned by Open for an empty path.
	ErrEmptyPath = errors.New("msb: empty file path")
)

// UnsupportedVersionError reports a version tag with no known metadata layout.
type UnsupportedVersionError struct {
	Version uint16
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("invalid msb file, version: %s", VersionString(e.Version))
}

// Is reports whether target is ErrUnsupportedVersion.
func (e *UnsupportedVersionError) Is(target error) bool {
	return target == ErrUnsupportedVersion
}

// PacketStreamError wraps the failure that stopped packet parsing. No packets
// from the file are returned alongside it.
type PacketStreamError struct {
	Index  int // index of the frame being read
	Offset int // byte offset where that frame started
	Err    error
}

func (e *PacketStreamError) Error() string {
	return fmt.Sprintf("failed to read packets: frame %d at offset %d: %v", e.Index, e.Offset, e.Err)
}

// Unwrap returns the underlying read error.
func (e *PacketStreamError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPacketStream.
func (e *PacketStreamError) Is(target error) bool {
	return target == ErrPacketStream
}
