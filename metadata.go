package photodedup

import (
	"bytes"
	"strings"
	"time"

	"github.com/bep/imagemeta"
)

// exifDateLayout is the EXIF 2.x date format.
const exifDateLayout = "2006:01:02 15:04:05"

// metaFormats maps MIME types to the containers imagemeta can read.
// imagemeta does not detect the format itself.
var metaFormats = map[string]imagemeta.ImageFormat{
	"image/jpeg": imagemeta.JPEG,
	"image/jpg":  imagemeta.JPEG,
	"image/png":  imagemeta.PNG,
	"image/webp": imagemeta.WebP,
	"image/tiff": imagemeta.TIFF,
}

// wantedDateTags are the EXIF tags that may carry the capture time, best first.
var wantedDateTags = []string{"DateTimeOriginal", "DateTimeDigitized", "DateTime"}

// CaptureTime extracts the capture time from the EXIF block of raw image
// bytes. It returns false when the format carries no EXIF, when the data
// cannot be parsed or when no date tag is present.
// Graceful degradation: never returns an error.
func CaptureTime(data []byte, mimeType string) (time.Time, bool) {
	format, ok := metaFormats[mimeType]
	if len(data) == 0 || !ok {
		return time.Time{}, false
	}

	found := make(map[string]time.Time, len(wantedDateTags))
	_, err := imagemeta.Decode(imagemeta.Options{
		R:           bytes.NewReader(data),
		ImageFormat: format,
		Sources:     imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return ti.Source == imagemeta.EXIF && isDateTag(ti.Tag)
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			if t, ok := tagValueTime(ti.Value); ok {
				found[ti.Tag] = t
			}
			return nil
		},
	})
	if err != nil {
		return time.Time{}, false
	}

	for _, tag := range wantedDateTags {
		if t, ok := found[tag]; ok {
			return t, true
		}
	}
	return time.Time{}, false
}

func isDateTag(tag string) bool {
	for _, t := range wantedDateTags {
		if t == tag {
			return true
		}
	}
	return false
}

// tagValueTime converts a tag value to a time.
// EXIF dates arrive as "YYYY:MM:DD HH:MM:SS" strings in local time.
func tagValueTime(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, !val.IsZero()
	case string:
		s := strings.TrimRight(strings.TrimSpace(val), "\x00")
		t, err := time.ParseInLocation(exifDateLayout, s, time.Local)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}
