package photodedup

import "math"

// sizeTolerance is the relative size difference below which two photos
// are treated as copies of one another.
const sizeTolerance = 0.10

// DetectExact groups photos by cheap metadata. A later photo joins an
// anchor when its size is within 10% of the anchor's or when the names are
// equal. Pixel data is never read. Only followers are returned.
func (cfg *Config) DetectExact(photos []Photo) []Annotation {
	return detectExact(photos, cfg.groupIDs())
}

func detectExact(photos []Photo, ids GroupIDs) []Annotation {
	return cluster(photos, MatchExact, ids, nil, func(i, j int) (bool, *float64) {
		a, b := photos[i], photos[j]
		return sizeClose(a.SizeBytes, b.SizeBytes) || a.Name == b.Name, nil
	})
}

// sizeClose reports |a-b|/a < sizeTolerance. An empty anchor only matches
// another empty file.
func sizeClose(a, b int64) bool {
	if a == 0 {
		return b == 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return float64(diff)/math.Abs(float64(a)) < sizeTolerance
}
