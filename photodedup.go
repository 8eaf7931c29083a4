// Package photodedup finds duplicate photos in an in-memory collection.
//
// Two detectors run over the same ordered collection: an exact detector that
// relies on cheap metadata (size proximity, name equality) and a perceptual
// detector that compares 1024-bit average-hash fingerprints. [Config.Aggregate]
// runs both and merges their findings.
package photodedup

import (
	"runtime"
	"time"
)

// DefaultThreshold is the minimum Hamming similarity at which two
// fingerprints are considered the same picture.
const DefaultThreshold = 0.85

// Photo is a single record supplied by the ingestion layer.
// The engine never creates or deletes photos, it only annotates them.
type Photo struct {
	ID        string      // unique for the session, never reused
	Name      string      // file name as ingested
	SizeBytes int64       // size of the encoded file
	MIMEType  string      // e.g. "image/jpeg"
	CreatedAt time.Time   // capture or modification time
	Source    PixelSource // borrowed handle to decodable image data

	Fingerprint     *Fingerprint // set by the perceptual pass
	IsDuplicate     bool         // true only for non-anchor cluster members
	Group           string       // cluster id; empty for anchors and uniques
	SimilarityScore *float64     // set only for perceptual matches
}

// Config holds all dependencies injected by the consumer.
// The zero value is usable.
type Config struct {
	Threshold float64  // perceptual threshold in (0,1]; 0 means DefaultThreshold, not an error
	Workers   int      // fingerprint workers (default: runtime.NumCPU())
	Decoder   Decoder  // default: ImagingDecoder with EXIF auto-orientation
	GroupIDs  GroupIDs // nil = fresh counter per run, deterministic ids

	// ContentHash enables the strict byte-equality pass between the exact
	// and perceptual passes. It adds to the heuristics, never replaces them.
	ContentHash bool

	// SkipPerceptual limits Aggregate to the metadata passes. Nothing is
	// decoded and no warning is raised.
	SkipPerceptual bool

	// Optional callback for progress display.
	OnProgress func(Progress)
}

// defaults fills zero-value fields with sensible defaults.
func (c *Config) defaults() {
	if c.Threshold == 0 {
		c.Threshold = DefaultThreshold
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Decoder == nil {
		c.Decoder = ImagingDecoder{AutoOrientation: true}
	}
}

// groupIDs returns the injected generator or a fresh counter.
func (c *Config) groupIDs() GroupIDs {
	if c.GroupIDs != nil {
		return c.GroupIDs
	}
	return NewCounterGroupIDs()
}

// progress reports a milestone to OnProgress, if set.
func (c *Config) progress(stage Stage) {
	if c.OnProgress != nil {
		c.OnProgress(Progress{Stage: stage, Percent: stage.Percent()})
	}
}
