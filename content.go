package photodedup

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
)

// DetectContent groups photos whose encoded bytes are identical (SHA-256).
// It is stricter than DetectExact and is meant to run alongside it.
// Unreadable sources are logged and skipped.
func (cfg *Config) DetectContent(photos []Photo) []Annotation {
	return detectContent(photos, cfg.groupIDs())
}

func detectContent(photos []Photo, ids GroupIDs) []Annotation {
	digests := make([]string, len(photos))
	for i := range photos {
		d, err := ContentDigest(photos[i].Source)
		if err != nil {
			slog.Warn("photodedup: content hash failed", "id", photos[i].ID, "error", err.Error())
			continue
		}
		digests[i] = d
	}

	return cluster(photos, MatchContent, ids,
		func(i int) bool { return digests[i] != "" },
		func(i, j int) (bool, *float64) { return digests[i] == digests[j], nil })
}

// ContentDigest returns the hex SHA-256 of everything src yields.
func ContentDigest(src PixelSource) (string, error) {
	if src == nil {
		return "", errNoSource
	}
	rc, err := src.Open()
	if err != nil {
		return "", fmt.Errorf("open source: %w", err)
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", fmt.Errorf("hash source: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
