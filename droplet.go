package fountain

import (
	"encoding/binary"
	"fmt"

	"github.com/kestrelcode/fountain/hazmat/sample"
)

// Kind identifies which of a [Droplet]'s two descriptor forms is populated.
type Kind uint8

const (
	// Seeded droplets carry a seed and a degree; their neighbor set is
	// hazmat/sample.Indices(Seed, K, Degree).
	Seeded Kind = iota
	// Explicit droplets carry their neighbor set literally. The systematic
	// encoder uses this for its K singleton droplets; the decoder treats any
	// Explicit descriptor uniformly, regardless of its length.
	Explicit
)

func (k Kind) String() string {
	switch k {
	case Seeded:
		return "Seeded"
	case Explicit:
		return "Explicit"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Droplet is one fountain-code packet: a descriptor naming the source chunks it
// combines, plus the B-byte XOR of those chunks.
//
// For a Droplet with neighbor set N as returned by [Droplet.neighbors], the
// invariant Data == XOR over i in N of the true source chunk i holds at the moment
// of emission. A [Decoder] mutates Data and shrinks its working neighbor set during
// peeling, but preserves that relation over whatever of N remains unresolved.
type Droplet struct {
	Kind Kind

	// Seed and Degree are populated when Kind == Seeded.
	Seed   uint64
	Degree int

	// Indices is populated when Kind == Explicit.
	Indices []int

	// Data is the B-byte XOR payload.
	Data []byte
}

// SeededDroplet constructs a Seeded droplet. Its neighbor set is
// hazmat/sample.Indices(seed, K, degree), computed lazily by the decoder that
// receives it.
func SeededDroplet(seed uint64, degree int, data []byte) Droplet {
	return Droplet{Kind: Seeded, Seed: seed, Degree: degree, Data: data}
}

// ExplicitDroplet constructs an Explicit droplet carrying its neighbor set
// literally.
func ExplicitDroplet(indices []int, data []byte) Droplet {
	return Droplet{Kind: Explicit, Indices: append([]int(nil), indices...), Data: data}
}

// neighbors resolves the droplet's descriptor to an ordered, duplicate-free set of
// chunk indices in [0, k), or returns ErrInvalidDroplet if the descriptor is
// malformed relative to k.
func (d Droplet) neighbors(k int) ([]int, error) {
	switch d.Kind {
	case Seeded:
		idx, err := sample.Indices(d.Seed, k, d.Degree)
		if err != nil {
			return nil, fmt.Errorf("fountain: resolving seeded droplet (seed=%d degree=%d k=%d): %w", d.Seed, d.Degree, k, ErrInvalidDroplet)
		}
		return idx, nil
	case Explicit:
		if len(d.Indices) == 0 || len(d.Indices) > k {
			return nil, fmt.Errorf("fountain: explicit droplet has %d indices for K=%d: %w", len(d.Indices), k, ErrInvalidDroplet)
		}
		seen := make(map[int]struct{}, len(d.Indices))
		for _, i := range d.Indices {
			if i < 0 || i >= k {
				return nil, fmt.Errorf("fountain: explicit index %d out of range [0, %d): %w", i, k, ErrInvalidDroplet)
			}
			if _, dup := seen[i]; dup {
				return nil, fmt.Errorf("fountain: explicit droplet has duplicate index %d: %w", i, ErrInvalidDroplet)
			}
			seen[i] = struct{}{}
		}
		return append([]int(nil), d.Indices...), nil
	default:
		return nil, fmt.Errorf("fountain: unknown droplet kind %v: %w", d.Kind, ErrInvalidDroplet)
	}
}

// MarshalBinary encodes the droplet using the codec's normative wire format:
//
//	kind (1 byte) || degree-or-count (4 bytes LE) || seed (8 bytes LE) or indices (4*count bytes LE) || data
func (d Droplet) MarshalBinary() ([]byte, error) {
	switch d.Kind {
	case Seeded:
		buf := make([]byte, 1+4+8+len(d.Data))
		buf[0] = byte(Seeded)
		binary.LittleEndian.PutUint32(buf[1:5], uint32(d.Degree))
		binary.LittleEndian.PutUint64(buf[5:13], d.Seed)
		copy(buf[13:], d.Data)
		return buf, nil
	case Explicit:
		count := len(d.Indices)
		buf := make([]byte, 1+4+4*count+len(d.Data))
		buf[0] = byte(Explicit)
		binary.LittleEndian.PutUint32(buf[1:5], uint32(count))
		off := 5
		for _, idx := range d.Indices {
			binary.LittleEndian.PutUint32(buf[off:off+4], uint32(idx))
			off += 4
		}
		copy(buf[off:], d.Data)
		return buf, nil
	default:
		return nil, fmt.Errorf("fountain: cannot marshal droplet of unknown kind %v", d.Kind)
	}
}

// UnmarshalBinary decodes a droplet from the codec's normative wire format,
// overwriting the receiver. It returns ErrInvalidDroplet if b is too short for the
// header it claims to have.
func (d *Droplet) UnmarshalBinary(b []byte) error {
	if len(b) < 5 {
		return fmt.Errorf("fountain: droplet header truncated (%d bytes): %w", len(b), ErrInvalidDroplet)
	}

	kind := Kind(b[0])
	n := binary.LittleEndian.Uint32(b[1:5])

	switch kind {
	case Seeded:
		if len(b) < 13 {
			return fmt.Errorf("fountain: seeded droplet header truncated (%d bytes): %w", len(b), ErrInvalidDroplet)
		}
		seed := binary.LittleEndian.Uint64(b[5:13])
		data := append([]byte(nil), b[13:]...)
		*d = Droplet{Kind: Seeded, Seed: seed, Degree: int(n), Data: data}
		return nil
	case Explicit:
		headerLen := 5 + uint64(n)*4
		if headerLen > uint64(len(b)) {
			return fmt.Errorf("fountain: explicit droplet header exceeds input (%d indices, %d bytes available): %w", n, len(b), ErrInvalidDroplet)
		}
		indices := make([]int, n)
		off := 5
		for i := range indices {
			indices[i] = int(binary.LittleEndian.Uint32(b[off : off+4]))
			off += 4
		}
		data := append([]byte(nil), b[headerLen:]...)
		*d = Droplet{Kind: Explicit, Indices: indices, Data: data}
		return nil
	default:
		return fmt.Errorf("fountain: unknown droplet kind %d: %w", kind, ErrInvalidDroplet)
	}
}
