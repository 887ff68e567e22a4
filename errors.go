package fountain

import "errors"

// ErrInvalidArgument is returned by constructors when given an out-of-range
// parameter: a non-positive block size or payload/total length.
var ErrInvalidArgument = errors.New("fountain: invalid argument")

// ErrInvalidDroplet is returned by [Decoder.Catch] when the droplet is malformed:
// its payload length doesn't match the decoder's block size, its descriptor names a
// degree outside [1, K], or its explicit indices contain an out-of-range or
// duplicate entry. A decoder that returns ErrInvalidDroplet leaves its state exactly
// as it was before the call; the offending droplet has no effect.
var ErrInvalidDroplet = errors.New("fountain: invalid droplet")
