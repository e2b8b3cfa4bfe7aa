// Package packets holds opcode tables and helpers shared by the capture
// tools and the encrypted connection.
package packets

import (
	"encoding/binary"
	"fmt"
)

// OpcodeSize is the size of the opcode that starts every decrypted payload.
const OpcodeSize = 2

// Opcodes dropped by the metadata builder. They carry connection upkeep
// traffic and no useful mode byte.
var (
	ignoredInbound = map[uint16]struct{}{
		0x11: {},
		0x12: {},
	}
	ignoredOutbound = map[uint16]struct{}{
		0x0b: {},
		0x12: {},
	}
)

// Ignored reports whether opcode in the given direction is excluded from
// metadata aggregation.
func Ignored(opcode uint16, outbound bool) bool {
	table := ignoredInbound
	if outbound {
		table = ignoredOutbound
	}
	_, ok := table[opcode]
	return ok
}

// Key returns the metadata cache key for an opcode and direction, e.g.
// "17-true". The opcode is decimal.
func Key(opcode uint16, outbound bool) string {
	return fmt.Sprintf("%d-%t", opcode, outbound)
}

// ParseKey is the inverse of Key.
func ParseKey(key string) (opcode uint16, outbound bool, err error) {
	if _, err := fmt.Sscanf(key, "%d-%t", &opcode, &outbound); err != nil {
		return 0, false, fmt.Errorf("parsing packet key %q: %w", key, err)
	}
	return opcode, outbound, nil
}

// Opcode returns the little-endian opcode at the start of payload.
func Opcode(payload []byte) (uint16, bool) {
	if len(payload) < OpcodeSize {
		return 0, false
	}
	return binary.LittleEndian.Uint16(payload), true
}

// Encode prefixes body with opcode.
func Encode(opcode uint16, body []byte) []byte {
	buf := make([]byte, OpcodeSize+len(body))
	binary.LittleEndian.PutUint16(buf, opcode)
	copy(buf[OpcodeSize:], body)
	return buf
}
