package photodedup

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// PixelSource is a handle to encoded image data owned by the ingestion layer.
// The engine opens it only to decode or hash the contents.
type PixelSource interface {
	Open() (io.ReadCloser, error)
}

// FileSource reads image data from a file path.
type FileSource string

// Open opens the file.
func (s FileSource) Open() (io.ReadCloser, error) {
	return os.Open(string(s))
}

// BytesSource serves image data already held in memory.
type BytesSource []byte

// Open returns a reader over the bytes.
func (s BytesSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s)), nil
}

// Decoder turns encoded image data into a raster.
// Implementations return ErrUnavailable when no backend can decode anything
// in the current environment.
type Decoder interface {
	Decode(r io.Reader) (image.Image, error)
}

// DefaultMaxPixels caps the raster size ImagingDecoder accepts, about
// 256 MiB of NRGBA per decode.
const DefaultMaxPixels = 64 << 20

// ImagingDecoder decodes gif, jpeg, png, webp, bmp and tiff.
// With AutoOrientation set, the EXIF orientation tag is applied so that a
// rotated copy of a photo fingerprints like the original.
type ImagingDecoder struct {
	AutoOrientation bool
	MaxPixels       int // default: DefaultMaxPixels
}

// Decode decodes r. The header is checked first; images larger than
// MaxPixels fail with ErrImageTooLarge before any pixel is allocated.
func (d ImagingDecoder) Decode(r io.Reader) (image.Image, error) {
	maxPixels := d.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	var head bytes.Buffer
	cfg, _, err := image.DecodeConfig(io.TeeReader(r, &head))
	if err != nil {
		return nil, err
	}
	if cfg.Width*cfg.Height > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrImageTooLarge, cfg.Width, cfg.Height, maxPixels)
	}
	return imaging.Decode(io.MultiReader(&head, r), imaging.AutoOrientation(d.AutoOrientation))
}

// UnavailableDecoder never decodes. Hosts use it to run metadata-only
// detection.
type UnavailableDecoder struct{}

// Decode always fails with ErrUnavailable.
func (UnavailableDecoder) Decode(io.Reader) (image.Image, error) {
	return nil, ErrUnavailable
}
