package fountain

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/kestrelcode/fountain/hazmat/sample"
	"github.com/kestrelcode/fountain/hazmat/soliton"
	"github.com/kestrelcode/fountain/internal/mem"
)

// Mode selects an [Encoder]'s droplet sequence.
type Mode uint8

const (
	// Systematic encoders emit the K raw source chunks first, then fall through to
	// Random for every subsequent droplet.
	Systematic Mode = iota
	// Random encoders emit only Soliton-weighted XOR combinations.
	Random
)

func (m Mode) String() string {
	switch m {
	case Systematic:
		return "Systematic"
	case Random:
		return "Random"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// robustC and robustDelta are the spike parameters handed to the encoder's internal
// degree sampler. c = 0.1 and delta = 0.05 are the values spec.md §4.1 cites as
// typical; an Encoder has no way for a caller to tune them since the choice affects
// only the sender's emission schedule, never the wire contract.
const (
	robustC     = 0.1
	robustDelta = 0.05
)

// Encoder owns a payload partitioned into K fixed-size chunks and emits an
// unbounded, lazy sequence of droplets via [Encoder.Next].
//
// An Encoder is not safe for concurrent use by multiple goroutines.
type Encoder struct {
	chunks    [][]byte
	blockSize int
	length    int
	mode      Mode
	cursor    int
	degrees   soliton.Sampler
	seeds     *sample.Stream
}

// NewEncoder partitions payload into blockSize-byte chunks and returns an Encoder
// in the given mode, seeded from crypto/rand. Returns ErrInvalidArgument if
// blockSize is not positive or payload is empty.
func NewEncoder(payload []byte, blockSize int, mode Mode) (*Encoder, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return nil, fmt.Errorf("fountain: reading random seed: %w", err)
	}
	return newEncoder(payload, blockSize, mode, binary.LittleEndian.Uint64(buf[:]))
}

// NewSeededEncoder is [NewEncoder] with an explicit seed in place of crypto/rand,
// for reproducible tests and benchmarks.
func NewSeededEncoder(payload []byte, blockSize int, mode Mode, seed uint64) (*Encoder, error) {
	return newEncoder(payload, blockSize, mode, seed)
}

func newEncoder(payload []byte, blockSize int, mode Mode, seed uint64) (*Encoder, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("fountain: blockSize must be positive, got %d: %w", blockSize, ErrInvalidArgument)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("fountain: payload must be non-empty: %w", ErrInvalidArgument)
	}

	k := (len(payload) + blockSize - 1) / blockSize
	chunks := make([][]byte, k)
	for i := range chunks {
		chunk := make([]byte, blockSize)
		start := i * blockSize
		end := min(start+blockSize, len(payload))
		copy(chunk, payload[start:end])
		chunks[i] = chunk
	}

	seeds := sample.NewStream(seed)
	degrees, err := soliton.NewRobust(k, robustC, robustDelta, seeds.Uint64())
	if err != nil {
		return nil, fmt.Errorf("fountain: constructing degree sampler: %w", err)
	}

	return &Encoder{
		chunks:    chunks,
		blockSize: blockSize,
		length:    len(payload),
		mode:      mode,
		degrees:   degrees,
		seeds:     seeds,
	}, nil
}

// K returns the number of source chunks the payload was partitioned into.
func (e *Encoder) K() int { return len(e.chunks) }

// Length returns the original payload length in bytes.
func (e *Encoder) Length() int { return e.length }

// BlockSize returns the fixed chunk size in bytes.
func (e *Encoder) BlockSize() int { return e.blockSize }

// Next produces the next droplet. It never fails and never terminates: a
// Systematic encoder emits its K raw chunks first (switching to Random on the call
// that exhausts them), and a Random encoder draws a fresh Soliton-weighted degree
// and seed on every call.
func (e *Encoder) Next() Droplet {
	if e.mode == Systematic && e.cursor < len(e.chunks) {
		i := e.cursor
		e.cursor++
		if e.cursor == len(e.chunks) {
			e.mode = Random
		}
		return ExplicitDroplet([]int{i}, append([]byte(nil), e.chunks[i]...))
	}

	degree := e.degrees.Next()
	seed := e.seeds.Uint64()

	indices, err := sample.Indices(seed, len(e.chunks), degree)
	if err != nil {
		// The degree sampler is constructed over the same K and is documented to
		// only ever produce values in [1, K], so this would mean that contract was
		// violated, not that the caller did anything wrong.
		panic(fmt.Sprintf("fountain: degree sampler produced out-of-range degree: %v", err))
	}

	data := make([]byte, e.blockSize)
	for _, i := range indices {
		mem.XORInPlace(data, e.chunks[i])
	}

	return SeededDroplet(seed, degree, data)
}
