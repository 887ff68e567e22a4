// Package fountain implements a Luby Transform (LT) fountain code: a rateless
// forward-error-correction scheme that encodes a fixed-size payload into an
// unbounded stream of small, fixed-size droplets such that a receiver who collects
// any sufficient subset — slightly more than the number of source chunks — can
// reconstruct the payload with high probability, regardless of which droplets were
// lost in transit.
//
// An [Encoder] partitions a payload into K fixed-size chunks and emits droplets
// lazily and indefinitely via [Encoder.Next]; it never runs out. A [Decoder]
// accepts droplets one at a time via [Decoder.Catch], maintaining a belief-
// propagation peeling graph between unknown chunks and outstanding droplets, and
// reports progress until the payload is fully reconstructed.
//
// This package covers the codec only: the degree-distribution sampler
// (hazmat/soliton), the seed-driven deterministic neighbor-set generator
// (hazmat/sample), the encoder, the droplet wire format, and the decoder's peeling
// algorithm. Transport, lossy-channel simulation, file I/O, and CLI framing are the
// caller's responsibility; this package accepts and emits [Droplet] values in
// memory and nothing more.
package fountain
