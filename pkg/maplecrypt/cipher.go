package maplecrypt

import (
	"fmt"
	"slices"

	"github.com/Faultbox/maple-msb/pkg/codec"
)

// HeaderSize is the size of the sequence and length header preceding every frame.
const HeaderSize = 6

// cipherState is owned by exactly one Encryptor or Decryptor.
type cipherState struct {
	version uint32
	iv      uint32
}

func (s *cipherState) advance() {
	s.iv = CRTRand(s.iv)
}

// Sequence returns the transforms selected by the decimal digits of blockIV,
// least significant digit first, for the given version.
func Sequence(version, blockIV uint32) []Transform {
	var slots [4]*Transform
	rearrange := NewRearrange()
	xor := NewXOR(version)
	table := NewTable(version)
	slots[Rearrange.Index(version)] = &rearrange
	slots[XOR.Index(version)] = &xor
	slots[Table.Index(version)] = &table

	var seq []Transform
	for ; blockIV > 0; blockIV /= 10 {
		digit := blockIV % 10
		if digit < uint32(len(slots)) && slots[digit] != nil {
			seq = append(seq, *slots[digit])
		}
	}
	return seq
}

// Encryptor frames and encrypts outgoing payloads.
// It is not safe for concurrent use.
type Encryptor struct {
	state cipherState
	seq   []Transform
}

// NewEncryptor creates an encryptor for the session described by version, iv and blockIV.
func NewEncryptor(version, iv, blockIV uint32) *Encryptor {
	return &Encryptor{
		state: cipherState{version: version, iv: iv},
		seq:   Sequence(version, blockIV),
	}
}

// Version returns the session version.
func (e *Encryptor) Version() uint32 { return e.state.version }

// IV returns the current IV.
func (e *Encryptor) IV() uint32 { return e.state.iv }

// Transforms returns the kinds applied, in order, by Encrypt.
func (e *Encryptor) Transforms() []TransformKind {
	return kinds(e.seq)
}

// EncodeSeqBase returns the header sequence for the next frame and advances the IV.
func (e *Encryptor) EncodeSeqBase() uint16 {
	enc := uint16(e.state.version ^ (e.state.iv >> 16))
	e.state.advance()
	return enc
}

// Encrypt returns payload wrapped in a frame header with the body transformed.
// The payload slice is not modified.
func (e *Encryptor) Encrypt(payload []byte) []byte {
	w := codec.NewWriter(len(payload) + HeaderSize)
	w.WriteUint16(e.EncodeSeqBase())
	w.WriteInt(int32(len(payload)))
	w.WriteBytes(payload)

	frame := w.Bytes()
	for _, t := range e.seq {
		t.EncryptRange(frame, HeaderSize, HeaderSize+len(payload))
	}
	return frame
}

// EncryptWriter encrypts the bytes written to w.
func (e *Encryptor) EncryptWriter(w *codec.Writer) []byte {
	return e.Encrypt(w.Bytes())
}

// Decryptor validates and decrypts incoming frames.
// It is not safe for concurrent use.
type Decryptor struct {
	state cipherState
	seq   []Transform
}

// NewDecryptor creates a decryptor for the session described by version, iv and blockIV.
func NewDecryptor(version, iv, blockIV uint32) *Decryptor {
	seq := Sequence(version, blockIV)
	slices.Reverse(seq)
	return &Decryptor{
		state: cipherState{version: version, iv: iv},
		seq:   seq,
	}
}

// NewPair creates an Encryptor and a Decryptor for the same session. They do
// not share state.
func NewPair(version, iv, blockIV uint32) (*Encryptor, *Decryptor) {
	return NewEncryptor(version, iv, blockIV), NewDecryptor(version, iv, blockIV)
}

// Version returns the session version.
func (d *Decryptor) Version() uint32 { return d.state.version }

// IV returns the current IV.
func (d *Decryptor) IV() uint32 { return d.state.iv }

// Transforms returns the kinds applied, in order, by the decrypt operations.
func (d *Decryptor) Transforms() []TransformKind {
	return kinds(d.seq)
}

// DecodeSeqBase recovers the version from a header sequence and advances the IV.
func (d *Decryptor) DecodeSeqBase(encSeq uint16) uint32 {
	dec := (d.state.iv >> 16) ^ uint32(encSeq)
	d.state.advance()
	return dec
}

func (d *Decryptor) validate(encSeq uint16) error {
	if dec := d.DecodeSeqBase(encSeq); dec != d.state.version {
		return &SequenceMismatchError{Version: d.state.version, Got: dec}
	}
	return nil
}

// TryDecrypt decrypts the frame at the start of buf. When buf does not yet
// hold a complete frame it returns (nil, 0, nil) and leaves the IV untouched,
// so the caller can retry once more bytes arrive. Otherwise consumed is the
// frame size including the header.
func (d *Decryptor) TryDecrypt(buf []byte) (plain []byte, consumed int, err error) {
	if len(buf) < HeaderSize {
		return nil, 0, nil
	}

	r := codec.NewReader(buf)
	encSeq, _ := r.ReadUint16()
	size, _ := r.ReadInt()
	if size < 0 {
		return nil, 0, fmt.Errorf("%w: %d", ErrInvalidLength, size)
	}
	if r.Available() < int(size) {
		return nil, 0, nil
	}

	if err := d.validate(encSeq); err != nil {
		return nil, 0, err
	}

	plain = make([]byte, size)
	copy(plain, buf[HeaderSize:HeaderSize+int(size)])
	for _, t := range d.seq {
		t.DecryptRange(plain, 0, len(plain))
	}
	return plain, HeaderSize + int(size), nil
}

// Decrypt decrypts the frame at the start of raw.
func (d *Decryptor) Decrypt(raw []byte) (plain []byte, consumed int, err error) {
	return d.DecryptAt(raw, 0)
}

// DecryptAt decrypts the frame starting at offset. Unlike TryDecrypt the
// sequence is consumed before the length is checked, so a truncated frame
// still advances the IV.
func (d *Decryptor) DecryptAt(raw []byte, offset int) (plain []byte, consumed int, err error) {
	r := codec.NewReaderAt(raw, offset)

	encSeq, err := r.ReadUint16()
	if err != nil {
		return nil, 0, fmt.Errorf("reading sequence: %w", err)
	}
	if err := d.validate(encSeq); err != nil {
		return nil, 0, err
	}

	size, err := r.ReadInt()
	if err != nil {
		return nil, 0, fmt.Errorf("reading length: %w", err)
	}
	if size < 0 || r.Available() < int(size) {
		return nil, 0, fmt.Errorf("%w: %d bytes declared, %d available", ErrInvalidLength, size, r.Available())
	}

	plain, err = r.ReadBytes(int(size))
	if err != nil {
		return nil, 0, err
	}
	for _, t := range d.seq {
		t.Decrypt(plain)
	}
	return plain, HeaderSize + int(size), nil
}

func kinds(seq []Transform) []TransformKind {
	out := make([]TransformKind, len(seq))
	for i, t := range seq {
		out[i] = t.Kind()
	}
	return out
}
