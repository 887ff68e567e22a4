// Package mem provides low-level byte-slice manipulation primitives shared across
// the codec's chunk-combination and peeling code paths.
package mem

// XORInPlace sets dst[i] ^= src[i] for each i in range. dst and src must be the
// same length.
func XORInPlace(dst, src []byte) {
	for i, s := range src[:len(dst)] {
		dst[i] ^= s
	}
}
