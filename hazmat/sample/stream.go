// Package sample provides the deterministic pseudorandom substrate that the codec's
// wire format depends on: a seed-keyed byte stream ([Stream]) and the neighbor-set
// sampling function ([Indices]) built on top of it.
//
// Everything in this package is part of the on-wire contract described in the
// codec's droplet wire format: a sender and receiver that compute [Indices] with the
// same (seed, k, degree) MUST obtain the same result, on any machine, in any
// process. Changing the stream construction or the sampling algorithm here is a
// wire-format-breaking change.
package sample

import (
	"crypto/sha3"
	"encoding/binary"
)

// Stream is a deterministic byte stream keyed by a 64-bit seed. It is built on
// SHAKE128 (an extendable-output function) rather than a native-width LCG or
// xorshift generator so that its output never depends on platform word size.
type Stream struct {
	xof *sha3.SHAKE
}

// NewStream returns a Stream keyed by seed. The seed is written as 8 little-endian
// bytes into the first 8 bytes of a 32-byte state buffer; the remaining 24 bytes are
// zero. This layout is fixed and documented because it is part of the wire contract:
// any conforming implementation of this codec's wire format must derive a Stream
// from a seed the same way.
func NewStream(seed uint64) *Stream {
	var state [32]byte
	binary.LittleEndian.PutUint64(state[:8], seed)

	h := sha3.NewSHAKE128()
	_, _ = h.Write(state[:])
	return &Stream{xof: h}
}

// Read fills p with stream output. It always returns len(p), nil.
func (s *Stream) Read(p []byte) (int, error) {
	return s.xof.Read(p)
}

// Uint32 returns the next 4 bytes of stream output as a little-endian uint32.
func (s *Stream) Uint32() uint32 {
	var b [4]byte
	_, _ = s.Read(b[:])
	return binary.LittleEndian.Uint32(b[:])
}

// Uint64 returns the next 8 bytes of stream output as a little-endian uint64.
func (s *Stream) Uint64() uint64 {
	var b [8]byte
	_, _ = s.Read(b[:])
	return binary.LittleEndian.Uint64(b[:])
}

// Float64 returns a uniform draw y in (0, 1], redrawing if the underlying 64-bit
// value happens to be zero (which would otherwise map to y == 0).
func (s *Stream) Float64() float64 {
	for {
		if u := s.Uint64(); u != 0 {
			return float64(u) / float64(^uint64(0))
		}
	}
}

// Intn returns a uniform draw in [0, n) using Lemire-style rejection sampling
// against Uint32, avoiding the modulo bias a plain `Uint32() % n` would introduce.
// Intn panics if n <= 0.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("sample: Intn called with n <= 0")
	}
	if n == 1 {
		return 0
	}

	bound := uint32(n)
	threshold := -bound % bound
	for {
		v := s.Uint32()
		if v >= threshold {
			return int(v % bound)
		}
	}
}
