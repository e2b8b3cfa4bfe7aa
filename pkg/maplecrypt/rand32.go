// Package maplecrypt implements the stream cipher that protects MSB wire
// frames: the Rand32 generator, the three byte transforms and the
// Encryptor/Decryptor pair that sequence them.
package maplecrypt

import "math"

// CRTRand is one step of the C runtime linear congruential generator.
func CRTRand(seed uint32) uint32 {
	return 214013*seed + 2531011
}

// Rand32 is a three register xorshift generator.
type Rand32 struct {
	s1, s2, s3 uint32
}

// NewRand32 seeds a generator.
func NewRand32(seed uint32) *Rand32 {
	r := CRTRand(seed)
	return &Rand32{
		s1: seed | 0x100000,
		s2: r | 0x1000,
		s3: CRTRand(r) | 0x10,
	}
}

// Random advances all three registers and returns their combined value.
func (r *Rand32) Random() uint32 {
	r.s1 = ((r.s1 << 12) & 0xffffe000) ^ ((r.s1 >> 6) & 0x00001fff) ^ (r.s1 >> 19)
	r.s2 = ((r.s2 << 4) & 0xffffff80) ^ ((r.s2 >> 23) & 0x0000007f) ^ (r.s2 >> 25)
	r.s3 = ((r.s3 << 17) & 0xffe00000) ^ ((r.s3 >> 8) & 0x001fffff) ^ (r.s3 >> 11)
	return r.s1 ^ r.s2 ^ r.s3
}

// RandomFloat returns a value in [0, 1) built from the low 23 bits of Random.
func (r *Rand32) RandomFloat() float32 {
	bits := (r.Random() & 0x007fffff) | 0x3f800000
	return math.Float32frombits(bits) - 1.0
}
