package fountain

import (
	"fmt"

	"github.com/kestrelcode/fountain/internal/mem"
)

// handle addresses a pendingDroplet in a [Decoder]'s arena. Handles are reused via
// a free list once their droplet is discarded or resolved; a single-threaded,
// synchronous Decoder never observes a stale handle, so plain integers suffice —
// there is no generational tag guarding against use-after-free.
type handle int

// pendingDroplet is a droplet mid-peel: edges names the chunks it still references,
// data is the current running XOR of whichever source chunks remain unknown among
// them. It exists in the arena while len(edges) >= 2; once a resolution drops it to
// 1 (or 0), it is resolved or discarded and its slot is freed.
type pendingDroplet struct {
	edges []int
	data  []byte
}

// chunkSlot is one of the K source-chunk slots the decoder reconstructs into.
type chunkSlot struct {
	known   bool
	pending []handle
}

// Statistics reports a [Decoder]'s progress as of the most recent [Decoder.Catch].
type Statistics struct {
	// Received is the number of droplets caught so far.
	Received int
	// Chunks is K, the number of source chunks the payload was partitioned into.
	Chunks int
	// OverheadPercent is 100 * Received / Chunks.
	OverheadPercent float64
	// UnknownChunks is the number of chunks not yet reconstructed.
	UnknownChunks int
}

// CatchResult is the outcome of a single [Decoder.Catch] call.
type CatchResult struct {
	// Done is true once every source chunk has been reconstructed.
	Done bool
	// Payload holds the first L bytes of the reconstruction buffer when Done is
	// true; it is nil otherwise.
	Payload []byte
	Stats   Statistics
}

// Decoder maintains the receiver-side peeling graph between unknown source chunks
// and outstanding droplets, incorporating one droplet at a time via [Decoder.Catch].
//
// A Decoder is not safe for concurrent use by multiple goroutines.
type Decoder struct {
	blockSize int
	length    int

	chunks []chunkSlot
	buffer []byte

	arena    []pendingDroplet
	freeList []handle
	worklist []handle

	unknown  int
	received int
}

// NewDecoder allocates a Decoder expecting a payload of length bytes partitioned
// into blockSize-byte chunks. Returns ErrInvalidArgument if either is not positive.
func NewDecoder(length, blockSize int) (*Decoder, error) {
	if length <= 0 {
		return nil, fmt.Errorf("fountain: length must be positive, got %d: %w", length, ErrInvalidArgument)
	}
	if blockSize <= 0 {
		return nil, fmt.Errorf("fountain: blockSize must be positive, got %d: %w", blockSize, ErrInvalidArgument)
	}

	k := (length + blockSize - 1) / blockSize
	return &Decoder{
		blockSize: blockSize,
		length:    length,
		chunks:    make([]chunkSlot, k),
		buffer:    make([]byte, k*blockSize),
		unknown:   k,
	}, nil
}

// K returns the number of source chunks the decoder expects to reconstruct.
func (dec *Decoder) K() int { return len(dec.chunks) }

// Length returns the original payload length in bytes.
func (dec *Decoder) Length() int { return dec.length }

// BlockSize returns the fixed chunk size in bytes.
func (dec *Decoder) BlockSize() int { return dec.blockSize }

// Catch incorporates one droplet into the decoder's peeling graph. It returns
// ErrInvalidDroplet — leaving the decoder's state exactly as it was before the
// call — if the droplet's payload length doesn't match the decoder's block size,
// its descriptor names a degree outside [1, K], or its explicit indices contain an
// out-of-range or duplicate entry.
//
// Catch tolerates droplets arriving in any order, duplicate droplets, and droplets
// arriving after the decoder has already finished: once Done is true, every
// subsequent well-formed call still increments Stats.Received, finds every edge
// already known, discards the droplet as redundant, and returns the same Done
// result with an unchanged Payload.
func (dec *Decoder) Catch(d Droplet) (CatchResult, error) {
	if len(d.Data) != dec.blockSize {
		return CatchResult{}, fmt.Errorf("fountain: droplet payload is %d bytes, want %d: %w", len(d.Data), dec.blockSize, ErrInvalidDroplet)
	}

	edges, err := d.neighbors(len(dec.chunks))
	if err != nil {
		return CatchResult{}, err
	}

	dec.received++
	h := dec.alloc(edges, append([]byte(nil), d.Data...))
	dec.processNew(h)

	if dec.unknown == 0 {
		return CatchResult{
			Done:    true,
			Payload: append([]byte(nil), dec.buffer[:dec.length]...),
			Stats:   dec.statistics(),
		}, nil
	}
	return CatchResult{Stats: dec.statistics()}, nil
}

func (dec *Decoder) statistics() Statistics {
	k := len(dec.chunks)
	return Statistics{
		Received:        dec.received,
		Chunks:          k,
		OverheadPercent: 100 * float64(dec.received) / float64(k),
		UnknownChunks:   dec.unknown,
	}
}

// processNew runs Step A (eliminate already-known edges, register with the
// pending list of every edge that's still unknown) against a freshly arrived
// droplet exactly once, then drains the worklist to a fixed point.
//
// Step A must never re-run against a droplet already holding pending-list
// entries: doing so would append it a second time and violate invariant (4), a
// chunk's pending list names a given droplet at most once. That's why the
// worklist below only ever carries droplets Step A already determined are down
// to their last edge — it resolves them, it never re-examines their edge set.
func (dec *Decoder) processNew(h handle) {
	p := &dec.arena[h]
	snapshot := append([]int(nil), p.edges...)
	remaining := p.edges[:0]

	for _, i := range snapshot {
		chunk := &dec.chunks[i]
		if chunk.known {
			mem.XORInPlace(p.data, dec.buffer[i*dec.blockSize:(i+1)*dec.blockSize])
			continue
		}
		remaining = append(remaining, i)
		chunk.pending = append(chunk.pending, h)
	}
	p.edges = remaining

	switch len(p.edges) {
	case 0:
		// Every edge pointed to an already-known chunk: the droplet carries no new
		// information. Discard silently, whether or not its data happened to XOR
		// out to zero.
		dec.free(h)
		return
	case 1:
		dec.worklist = append(dec.worklist, h)
	}

	dec.drain()
}

// drain resolves worklist entries to a fixed point using an explicit LIFO stack;
// the peeling cascade triggered by a single droplet can be arbitrarily deep, so
// this never recurses.
func (dec *Decoder) drain() {
	for len(dec.worklist) > 0 {
		n := len(dec.worklist) - 1
		h := dec.worklist[n]
		dec.worklist = dec.worklist[:n]
		dec.resolve(h)
	}
}

// resolve handles a droplet whose remaining edge set has exactly one member i. If
// chunk i somehow became known between being queued and being resolved (a
// duplicate droplet racing its own earlier copy through the cascade), the droplet
// is simply discarded as redundant. Otherwise its data is exactly chunk i's true
// value: write it into the reconstruction buffer, mark i known, and drain i's own
// pending list — XORing the newly learned chunk out of every droplet still
// referencing it and queuing any that drop to their own last edge.
func (dec *Decoder) resolve(h handle) {
	p := &dec.arena[h]
	if len(p.edges) == 0 {
		// A duplicate or overlapping droplet can be drained down to zero edges by
		// someone else's resolution while it's still sitting on the worklist from
		// an earlier push (two droplets sharing their last two edges, one of which
		// gets resolved out from under the other). Nothing left to resolve.
		dec.free(h)
		return
	}

	i := p.edges[0]
	chunk := &dec.chunks[i]

	if chunk.known {
		dec.free(h)
		return
	}

	offset := i * dec.blockSize
	copy(dec.buffer[offset:offset+dec.blockSize], p.data)
	chunk.known = true
	dec.unknown--

	pending := chunk.pending
	chunk.pending = nil
	dec.free(h)

	for _, e := range pending {
		if e == h {
			// d itself: it resolved i, it was never a recipient of i's value.
			continue
		}
		ep := &dec.arena[e]
		mem.XORInPlace(ep.data, dec.buffer[offset:offset+dec.blockSize])
		ep.edges = removeEdge(ep.edges, i)
		if len(ep.edges) == 1 {
			dec.worklist = append(dec.worklist, e)
		}
	}
}

func removeEdge(edges []int, target int) []int {
	for idx, e := range edges {
		if e == target {
			return append(edges[:idx], edges[idx+1:]...)
		}
	}
	return edges
}

func (dec *Decoder) alloc(edges []int, data []byte) handle {
	if n := len(dec.freeList); n > 0 {
		h := dec.freeList[n-1]
		dec.freeList = dec.freeList[:n-1]
		dec.arena[h] = pendingDroplet{edges: edges, data: data}
		return h
	}
	dec.arena = append(dec.arena, pendingDroplet{edges: edges, data: data})
	return handle(len(dec.arena) - 1)
}

func (dec *Decoder) free(h handle) {
	dec.arena[h] = pendingDroplet{}
	dec.freeList = append(dec.freeList, h)
}
