package photodedup

import "fmt"

// Similarity returns 1 - hamming(a, b)/bits, a value in [0,1].
// Fingerprints of different lengths fail with ErrIncomparable.
func Similarity(a, b Fingerprint) (float64, error) {
	if a.IsZero() || b.IsZero() || a.Bits() != b.Bits() {
		return 0, fmt.Errorf("%w: %d bits vs %d bits", ErrIncomparable, a.Bits(), b.Bits())
	}
	dist, err := a.hash.Distance(b.hash)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrIncomparable, err)
	}
	return 1 - float64(dist)/float64(a.Bits()), nil
}
