package sample

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned by [Indices] when k is zero or degree is out of
// the range [1, k].
var ErrInvalidArgument = errors.New("sample: invalid argument")

// Indices deterministically derives the ordered neighbor set a droplet with the
// given (seed, degree) combines: degree distinct indices in [0, k), drawn uniformly
// without replacement.
//
// Indices is a pure function of its three arguments: for fixed (seed, k, degree) it
// returns the same indices every time, on every machine, in every process. A sender
// and receiver that both call Indices with the values embedded in a Seeded droplet
// descriptor always agree on its neighbor set without exchanging an index list.
//
// The returned slice is not sorted; its order is simply whatever order the partial
// Fisher-Yates shuffle below produces, and that order is itself stable under the
// same seed.
func Indices(seed uint64, k, degree int) ([]int, error) {
	if k <= 0 {
		return nil, fmt.Errorf("sample: k must be positive, got %d: %w", k, ErrInvalidArgument)
	}
	if degree <= 0 || degree > k {
		return nil, fmt.Errorf("sample: degree %d out of range [1, %d]: %w", degree, k, ErrInvalidArgument)
	}

	idx := make([]int, k)
	for i := range idx {
		idx[i] = i
	}

	s := NewStream(seed)
	for i := 0; i < degree; i++ {
		j := i + s.Intn(k-i)
		idx[i], idx[j] = idx[j], idx[i]
	}

	return idx[:degree:degree], nil
}
