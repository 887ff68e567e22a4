// Package soliton implements the ideal and robust Soliton degree distributions used
// by the encoder to choose how many source chunks each emitted droplet combines.
//
// Unlike [sample.Indices], degree selection is not part of the codec's wire
// contract: the encoder's choice of degree travels with the droplet (embedded in
// its descriptor), so a decoder never needs to reproduce the sequence a Sampler
// here produced. That freedom is why this package, unlike
// github.com/kestrelcode/fountain/hazmat/sample, is seeded by a plain caller-chosen
// integer rather than a value with a pinned wire encoding.
package soliton

import (
	"errors"
	"fmt"
	"math"

	"github.com/kestrelcode/fountain/hazmat/sample"
)

// ErrInvalidArgument is returned by [NewIdeal] and [NewRobust] when k is not
// positive, or by [NewRobust] when c is not positive or delta is not in (0, 1).
var ErrInvalidArgument = errors.New("soliton: invalid argument")

// Sampler produces an infinite sequence of degrees in [1, K].
type Sampler interface {
	// Next returns the next degree in the sequence, an integer in [1, K].
	Next() int
}

// Ideal is the ideal Soliton distribution: rho(1) = 1/K, rho(d) = 1/(d*(d-1)) for
// 2 <= d <= K.
type Ideal struct {
	k      int
	stream *sample.Stream
}

// NewIdeal returns an [Ideal] sampler for K source chunks, seeded by seed for
// reproducibility.
func NewIdeal(k int, seed uint64) (*Ideal, error) {
	if k <= 0 {
		return nil, fmt.Errorf("soliton: k must be positive, got %d: %w", k, ErrInvalidArgument)
	}
	return &Ideal{k: k, stream: sample.NewStream(seed)}, nil
}

// Next implements [Sampler] via the inverse-CDF shortcut: draw y in (0, 1]; if y <
// 1/K return 1, otherwise return ceil(1/y). Any result exceeding K is clamped to 1,
// not K, keeping the tail consistent with the ideal Soliton's own singleton bias
// (see the codec's design notes on this choice).
func (s *Ideal) Next() int {
	y := s.stream.Float64()
	if y < 1/float64(s.k) {
		return 1
	}

	d := int(math.Ceil(1 / y))
	if d > s.k {
		return 1
	}
	return d
}

// Robust is the robust Soliton distribution: the ideal distribution plus a spike
// tau(d) that promotes low-degree droplets, improving decoder progress in practice.
type Robust struct {
	k      int
	stream *sample.Stream
	cdf    []float64 // cdf[d] for d in [1, k], cdf[0] unused
}

// NewRobust returns a [Robust] sampler for K source chunks with spike parameters c
// (typically small and positive, e.g. 0.1) and delta (target decoding failure
// probability, e.g. 0.05), seeded by seed for reproducibility.
//
// NewRobust builds a cumulative distribution table of size K at construction, an
// O(K) cost amortized over the lifetime of the encoding session that uses it.
func NewRobust(k int, c, delta float64, seed uint64) (*Robust, error) {
	if k <= 0 {
		return nil, fmt.Errorf("soliton: k must be positive, got %d: %w", k, ErrInvalidArgument)
	}
	if c <= 0 || delta <= 0 || delta >= 1 {
		return nil, fmt.Errorf("soliton: c must be positive and delta in (0, 1), got c=%v delta=%v: %w", c, delta, ErrInvalidArgument)
	}

	kf := float64(k)

	rho := make([]float64, k+1)
	rho[1] = 1 / kf
	for d := 2; d <= k; d++ {
		rho[d] = 1 / (float64(d) * float64(d-1))
	}

	r := c * math.Log(kf/delta) * math.Sqrt(kf)
	spikeBound := int(math.Floor(kf / r))

	tau := make([]float64, k+1)
	for d := 1; d <= k; d++ {
		switch {
		case d < spikeBound:
			tau[d] = r / (kf * float64(d))
		case d == spikeBound:
			tau[d] = r * math.Log(r/delta) / kf
		}
	}

	beta := 0.0
	for d := 1; d <= k; d++ {
		beta += rho[d] + tau[d]
	}

	cdf := make([]float64, k+1)
	cum := 0.0
	for d := 1; d <= k; d++ {
		cum += (rho[d] + tau[d]) / beta
		cdf[d] = cum
	}
	cdf[k] = 1 // guard against floating-point drift leaving mass above the last bucket

	return &Robust{k: k, stream: sample.NewStream(seed), cdf: cdf}, nil
}

// Next implements [Sampler] by drawing y in (0, 1] and binary-searching the
// precomputed cumulative table for the smallest d with cdf[d] >= y.
func (s *Robust) Next() int {
	y := s.stream.Float64()

	lo, hi := 1, s.k
	for lo < hi {
		mid := (lo + hi) / 2
		if s.cdf[mid] >= y {
			hi = mid
		} else {
			lo = mid + 1
		}
	}
	return lo
}

var (
	_ Sampler = (*Ideal)(nil)
	_ Sampler = (*Robust)(nil)
)
