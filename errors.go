package photodedup

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode means a photo's pixel data could not be decoded.
	// The photo stays eligible for metadata comparison.
	ErrDecode = errors.New("photodedup: cannot decode pixel data")

	// ErrImageTooLarge means a photo's dimensions exceed the decoder's
	// pixel budget. It arrives wrapped in a DecodeError.
	ErrImageTooLarge = errors.New("photodedup: image exceeds pixel budget")

	// ErrUnavailable means no decoding backend exists in this environment.
	// The perceptual pass is skipped and the exact pass still runs.
	ErrUnavailable = errors.New("photodedup: no decoding backend available")

	// ErrInvalidArgument is returned for caller contract violations,
	// before any work begins.
	ErrInvalidArgument = errors.New("photodedup: invalid argument")

	// ErrIncomparable is returned when two fingerprints differ in length.
	ErrIncomparable = errors.New("photodedup: fingerprints are not comparable")
)

// DecodeError reports a per-photo decode failure.
type DecodeError struct {
	PhotoID string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("photodedup: decode photo %s: %v", e.PhotoID, e.Err)
}

// Unwrap exposes both the cause and ErrDecode to errors.Is.
func (e *DecodeError) Unwrap() []error {
	return []error{ErrDecode, e.Err}
}
