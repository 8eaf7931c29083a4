package photodedup

import (
	"image"
	"io"
	"log/slog"
)

// sniffLimit bounds how much of a file is read to identify it.
const sniffLimit = 256 * 1024

// SniffPhoto reads the head of r and returns the MIME type when it holds a
// supported image with non-zero dimensions.
func SniffPhoto(r io.Reader) (mimeType string, ok bool) {
	cfg, format, err := image.DecodeConfig(io.LimitReader(r, sniffLimit))
	if err != nil {
		return "", false
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		slog.Debug("photodedup: empty image", "format", format)
		return "", false
	}
	mimeType = "image/" + format
	if !IsSupportedMIMEType(mimeType) {
		return "", false
	}
	return mimeType, true
}
