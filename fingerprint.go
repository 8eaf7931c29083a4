package photodedup

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/corona10/goimagehash"
	"github.com/disintegration/imaging"
)

const (
	// FingerprintSide is the edge of the grid images are reduced to.
	FingerprintSide = 32
	// FingerprintBits is the fingerprint length: one bit per grid sample.
	FingerprintBits = FingerprintSide * FingerprintSide

	wordBits = 64
)

var errNoSource = errors.New("no pixel source")

// Fingerprint is a 1024-bit average hash. Bit i is set when grid sample i
// (row-major) is brighter than the mean luminance of the grid.
// The zero value is an empty fingerprint that compares with nothing.
type Fingerprint struct {
	hash *goimagehash.ExtImageHash
}

func newFingerprint(words []uint64, bits int) Fingerprint {
	return Fingerprint{hash: goimagehash.NewExtImageHash(words, goimagehash.AHash, bits)}
}

// Bits returns the fingerprint length in bits.
func (f Fingerprint) Bits() int {
	if f.hash == nil {
		return 0
	}
	return f.hash.Bits()
}

// IsZero reports whether f holds no fingerprint.
func (f Fingerprint) IsZero() bool {
	return f.Bits() == 0
}

// Bit reports whether bit i is set. Bits are stored most significant first
// within each 64-bit word.
func (f Fingerprint) Bit(i int) bool {
	if i < 0 || i >= f.Bits() {
		return false
	}
	words := f.hash.GetHash()
	return words[i/wordBits]>>(wordBits-1-uint(i%wordBits))&1 == 1
}

// Equal reports whether both fingerprints carry the same bits.
func (f Fingerprint) Equal(other Fingerprint) bool {
	return f.String() == other.String()
}

// String returns the fingerprint in goimagehash's text form, "a:<hex>".
func (f Fingerprint) String() string {
	if f.hash == nil {
		return ""
	}
	return f.hash.ToString()
}

// ParseFingerprint reverses Fingerprint.String.
func ParseFingerprint(s string) (Fingerprint, error) {
	const digits = wordBits / 4
	hexPart, ok := strings.CutPrefix(s, "a:")
	if !ok || hexPart == "" || len(hexPart)%digits != 0 {
		return Fingerprint{}, fmt.Errorf("%w: malformed fingerprint %q", ErrInvalidArgument, s)
	}
	h, err := goimagehash.ExtImageHashFromString(s) //nolint:staticcheck // SA1019: pairs with ToString
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return Fingerprint{hash: h}, nil
}

// GenerateFingerprint decodes p.Source and computes its average hash.
// It never mutates p; the caller assigns the result.
func (cfg *Config) GenerateFingerprint(p Photo) (Fingerprint, error) {
	cfg.defaults()
	return generateFingerprint(cfg.Decoder, p)
}

func generateFingerprint(dec Decoder, p Photo) (Fingerprint, error) {
	if p.Source == nil {
		return Fingerprint{}, &DecodeError{PhotoID: p.ID, Err: errNoSource}
	}
	rc, err := p.Source.Open()
	if err != nil {
		return Fingerprint{}, &DecodeError{PhotoID: p.ID, Err: err}
	}
	defer rc.Close()

	img, err := dec.Decode(rc)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			return Fingerprint{}, err
		}
		return Fingerprint{}, &DecodeError{PhotoID: p.ID, Err: err}
	}
	if img.Bounds().Empty() {
		return Fingerprint{}, &DecodeError{PhotoID: p.ID, Err: errors.New("empty raster")}
	}
	return averageHash(img), nil
}

// averageHash reduces img to the fingerprint grid with a box filter and
// thresholds each sample's luminance against the grid mean.
func averageHash(img image.Image) Fingerprint {
	small := imaging.Resize(img, FingerprintSide, FingerprintSide, imaging.Box)

	lum := make([]int, FingerprintBits)
	sum := 0
	for y := range FingerprintSide {
		row := small.Pix[y*small.Stride:]
		for x := range FingerprintSide {
			px := row[x*4 : x*4+3]
			// Y = 0.299R + 0.587G + 0.114B, rounded half up.
			v := (299*int(px[0]) + 587*int(px[1]) + 114*int(px[2]) + 500) / 1000
			lum[y*FingerprintSide+x] = v
			sum += v
		}
	}

	// v > sum/n  <=>  v*n > sum, which keeps the comparison exact.
	words := make([]uint64, FingerprintBits/wordBits)
	for i, v := range lum {
		if v*FingerprintBits > sum {
			words[i/wordBits] |= 1 << (wordBits - 1 - uint(i%wordBits))
		}
	}
	return newFingerprint(words, FingerprintBits)
}
