package photodedup

// SupportedMIMETypes are the image types the loader picks up and the
// default decoder understands.
var SupportedMIMETypes = []string{
	"image/jpeg", "image/png", "image/gif",
	"image/webp", "image/bmp", "image/tiff",
}

// IsSupportedMIMEType reports whether mimeType is one of SupportedMIMETypes.
// "image/jpg", which some platforms emit, counts as jpeg.
func IsSupportedMIMEType(mimeType string) bool {
	if mimeType == "image/jpg" {
		return true
	}
	for _, t := range SupportedMIMETypes {
		if t == mimeType {
			return true
		}
	}
	return false
}
