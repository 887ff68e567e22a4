// Package testdata provides a deterministic random bit generator for testing.
package testdata

import (
	"crypto/sha3"
	"encoding/binary"
	"io"
)

// DRBG is a deterministic random bit generator based on SHAKE128.
type DRBG struct {
	h *sha3.SHAKE
}

// New returns a new DRBG instance initialized with the given customization string.
func New(customization string) *DRBG {
	h := sha3.NewSHAKE128()
	_, _ = h.Write([]byte(customization))
	return &DRBG{h}
}

// Data returns n bytes of deterministic data from the DRBG.
func (d *DRBG) Data(n int) []byte {
	b := make([]byte, n)
	_, _ = d.h.Read(b)
	return b
}

// Payload returns n bytes of deterministic data suitable for use as an encoder
// payload in tests. It is equivalent to Data.
func (d *DRBG) Payload(n int) []byte {
	return d.Data(n)
}

// Uint64 returns a deterministic uint64 drawn from the DRBG, suitable for seeding a
// NewSeededEncoder or a hazmat/soliton sampler in tests.
func (d *DRBG) Uint64() uint64 {
	return binary.LittleEndian.Uint64(d.Data(8))
}

// Reader returns a pseudorandom reader seeded with a value from this DRBG.
func (d *DRBG) Reader() io.Reader {
	h := sha3.NewSHAKE128()
	_, _ = h.Write(d.Data(32))
	return h
}
