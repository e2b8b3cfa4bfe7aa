package maplecrypt

import (
	"fmt"
	"math"
)

const tableSize = 256

// TransformKind identifies one of the three byte transforms.
// The numeric value doubles as the transform's index offset.
type TransformKind uint8

const (
	Rearrange TransformKind = iota + 1
	XOR
	Table
)

// String returns the transform name.
func (k TransformKind) String() string {
	switch k {
	case Rearrange:
		return "Rearrange"
	case XOR:
		return "XOR"
	case Table:
		return "Table"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(k))
	}
}

// Index returns the slot, always 1, 2 or 3, the transform occupies for version.
func (k TransformKind) Index(version uint32) int {
	return int((uint64(version)+uint64(k))%3) + 1
}

type substitution struct {
	encrypted [tableSize]byte
	decrypted [tableSize]byte
}

// Transform is an invertible in-place byte transform. The zero value is invalid;
// use NewRearrange, NewXOR or NewTable.
type Transform struct {
	kind  TransformKind
	xor   [2]byte
	table *substitution
}

// NewRearrange returns the half-swapping transform.
func NewRearrange() Transform {
	return Transform{kind: Rearrange}
}

// NewXOR returns the transform that XORs alternating bytes with a key pair
// derived from version.
func NewXOR(version uint32) Transform {
	r1 := NewRand32(version)
	r2 := NewRand32(2 * version)
	return Transform{
		kind: XOR,
		xor: [2]byte{
			byte(math.Floor(float64(r1.RandomFloat()) * 255)),
			byte(math.Floor(float64(r2.RandomFloat()) * 255)),
		},
	}
}

// NewTable returns the substitution transform keyed by version squared.
func NewTable(version uint32) Transform {
	t := &substitution{}
	for i := range t.encrypted {
		t.encrypted[i] = byte(i)
	}

	rand := NewRand32(version * version)
	for i := tableSize - 1; i >= 1; i-- {
		j := rand.Random() % uint32(i+1)
		t.encrypted[i], t.encrypted[j] = t.encrypted[j], t.encrypted[i]
	}

	for i, b := range t.encrypted {
		t.decrypted[b] = byte(i)
	}
	return Transform{kind: Table, table: t}
}

// Kind returns the transform kind.
func (t Transform) Kind() TransformKind {
	return t.kind
}

// Encrypt transforms the whole buffer in place.
func (t Transform) Encrypt(src []byte) {
	t.EncryptRange(src, 0, len(src))
}

// Decrypt inverts Encrypt over the whole buffer in place.
func (t Transform) Decrypt(src []byte) {
	t.DecryptRange(src, 0, len(src))
}

// EncryptRange transforms src[start:end] in place.
func (t Transform) EncryptRange(src []byte, start, end int) {
	switch t.kind {
	case Rearrange:
		swapHalves(src, start, end)
	case XOR:
		t.xorRange(src, start, end)
	case Table:
		for i := start; i < end; i++ {
			src[i] = t.table.encrypted[src[i]]
		}
	}
}

// DecryptRange inverts EncryptRange over src[start:end].
func (t Transform) DecryptRange(src []byte, start, end int) {
	switch t.kind {
	case Rearrange:
		swapHalves(src, start, end)
	case XOR:
		t.xorRange(src, start, end)
	case Table:
		for i := start; i < end; i++ {
			src[i] = t.table.decrypted[src[i]]
		}
	}
}

// xorRange keys on the absolute buffer index, not the offset from start.
func (t Transform) xorRange(src []byte, start, end int) {
	for i := start; i < end; i++ {
		src[i] ^= t.xor[i&1]
	}
}

func swapHalves(src []byte, start, end int) {
	half := (end - start) >> 1
	for i := start; i < start+half; i++ {
		src[i], src[i+half] = src[i+half], src[i]
	}
}
