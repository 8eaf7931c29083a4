package photodedup

import (
	"math"
	"strconv"
)

// Stats is the summary a presentation layer displays after a run.
type Stats struct {
	TotalPhotos       int
	Duplicates        int
	SpaceSavingsBytes int64
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatBytes renders n in 1024-based units with at most two decimals,
// e.g. "0 Bytes", "1.5 KB", "2.25 MB".
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := 0
	div := int64(1)
	for i < len(sizeUnits)-1 && n >= div*1024 {
		div *= 1024
		i++
	}
	v := math.Round(float64(n)/float64(div)*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}

// Without returns photos minus the given ids, preserving order.
// Hosts call it once the user has confirmed deletions, then run the
// analysis again on the smaller set.
func Without(photos []Photo, ids ...string) []Photo {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if !drop[p.ID] {
			out = append(out, p)
		}
	}
	return out
}
