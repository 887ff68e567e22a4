package fountain

import (
	"bytes"
	"errors"
	"testing"
)

func TestDropletMarshalRoundTripSeeded(t *testing.T) {
	d := SeededDroplet(0xdeadbeefcafef00d, 7, []byte("twelve bytes"))

	b, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got Droplet
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	if got.Kind != Seeded || got.Seed != d.Seed || got.Degree != d.Degree || !bytes.Equal(got.Data, d.Data) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, d)
	}
}

func TestDropletMarshalRoundTripExplicit(t *testing.T) {
	d := ExplicitDroplet([]int{1, 4, 9}, []byte("abc"))

	b, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	var got Droplet
	if err := got.UnmarshalBinary(b); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	if got.Kind != Explicit || !intsEqual(got.Indices, d.Indices) || !bytes.Equal(got.Data, d.Data) {
		t.Fatalf("round trip mismatch: got %+v, want %+v", got, d)
	}
}

func TestDropletMarshalExplicitWireLayout(t *testing.T) {
	d := ExplicitDroplet([]int{2}, []byte{0xaa, 0xbb})

	b, err := d.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}

	want := []byte{
		1,          // kind: Explicit
		1, 0, 0, 0, // count: 1
		2, 0, 0, 0, // indices[0]: 2
		0xaa, 0xbb, // data
	}
	if !bytes.Equal(b, want) {
		t.Fatalf("wire layout = % x, want % x", b, want)
	}
}

func TestDropletUnmarshalTruncatedHeader(t *testing.T) {
	var d Droplet
	if err := d.UnmarshalBinary([]byte{1, 2}); !errors.Is(err, ErrInvalidDroplet) {
		t.Fatalf("UnmarshalBinary([1, 2]) = %v, want ErrInvalidDroplet", err)
	}
}

func TestDropletUnmarshalUnknownKind(t *testing.T) {
	var d Droplet
	b := []byte{9, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	if err := d.UnmarshalBinary(b); !errors.Is(err, ErrInvalidDroplet) {
		t.Fatalf("UnmarshalBinary with unknown kind = %v, want ErrInvalidDroplet", err)
	}
}

func TestDropletNeighborsSeeded(t *testing.T) {
	d := SeededDroplet(42, 3, make([]byte, 4))

	got, err := d.neighbors(100)
	if err != nil {
		t.Fatalf("neighbors: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("neighbors returned %d indices, want 3", len(got))
	}
}

func TestDropletNeighborsSeededRejectsOversizedDegree(t *testing.T) {
	d := SeededDroplet(42, 50, make([]byte, 4))

	if _, err := d.neighbors(10); !errors.Is(err, ErrInvalidDroplet) {
		t.Fatalf("neighbors() = %v, want ErrInvalidDroplet", err)
	}
}

func TestDropletNeighborsExplicitRejectsDuplicate(t *testing.T) {
	d := ExplicitDroplet([]int{1, 1, 2}, make([]byte, 4))

	if _, err := d.neighbors(10); !errors.Is(err, ErrInvalidDroplet) {
		t.Fatalf("neighbors() = %v, want ErrInvalidDroplet", err)
	}
}

func TestDropletNeighborsExplicitRejectsOutOfRange(t *testing.T) {
	d := ExplicitDroplet([]int{1, 20}, make([]byte, 4))

	if _, err := d.neighbors(10); !errors.Is(err, ErrInvalidDroplet) {
		t.Fatalf("neighbors() = %v, want ErrInvalidDroplet", err)
	}
}

func intsEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
