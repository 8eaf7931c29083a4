package photodedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
)

// Report is the outcome of Aggregate.
type Report struct {
	// Photos is the annotated copy of the input, in input order.
	Photos []Photo

	// Duplicates holds every flagged follower once, exact matches first,
	// then content matches, then perceptual matches.
	Duplicates []Photo

	// SpaceSavingsBytes sums SizeBytes over Duplicates. It assumes every
	// follower gets deleted; nothing is measured.
	SpaceSavingsBytes int64

	// Per-pass deltas, as applied to Photos.
	Exact      []Annotation
	Content    []Annotation
	Perceptual []Annotation

	DecodeFailures    []string // ids excluded from the perceptual pass
	PerceptualSkipped bool     // perceptual pass did not run: requested or no backend
	Warnings          []string // human-readable notes on partial results

	// Stage is the last milestone reached.
	Stage Stage
}

// Aggregate runs the exact pass, the optional content pass and the
// perceptual pass over a copy of photos and merges their findings.
//
// Annotations already present on the input are discarded: every run starts
// from a clean copy, and the caller's slice is never modified.
//
// ctx is checked between passes only; a pass that has started runs to the
// end. On cancellation the returned report reflects the passes completed so
// far and the error is ctx.Err(). A missing decoding backend is not an
// error: the report comes back with PerceptualSkipped set.
func (cfg *Config) Aggregate(ctx context.Context, photos []Photo) (*Report, error) {
	cfg.defaults()
	if err := validateThreshold(cfg.Threshold); err != nil {
		return nil, err
	}
	if err := validateIDs(photos); err != nil {
		return nil, err
	}

	r := &Report{Photos: slices.Clone(photos)}
	for i := range r.Photos {
		resetAnnotations(&r.Photos[i])
	}
	ids := cfg.groupIDs()
	work := context.WithoutCancel(ctx)

	r.reach(cfg, StageStarted)

	if err := ctx.Err(); err != nil {
		return r.finish(), err
	}
	r.Exact = detectExact(r.Photos, ids)
	Apply(r.Photos, r.Exact)
	r.reach(cfg, StageExactDone)

	if cfg.ContentHash {
		if err := ctx.Err(); err != nil {
			return r.finish(), err
		}
		r.Content = detectContent(r.Photos, ids)
		Apply(r.Photos, r.Content)
		r.reach(cfg, StageContentDone)
	}

	if err := ctx.Err(); err != nil {
		return r.finish(), err
	}
	if cfg.SkipPerceptual {
		slog.Debug("photodedup: perceptual pass disabled")
		r.PerceptualSkipped = true
		r.reach(cfg, StagePerceptualDone)
		r.finish()
		r.reach(cfg, StageComplete)
		return r, nil
	}
	res, err := detectPerceptual(work, r.Photos, cfg.Threshold, cfg.Decoder, cfg.Workers, ids)
	switch {
	case errors.Is(err, ErrUnavailable):
		slog.Warn("photodedup: perceptual pass skipped", "error", err.Error())
		r.PerceptualSkipped = true
		r.Warnings = append(r.Warnings, "perceptual analysis skipped: no decoding backend available")
	case err != nil:
		return r.finish(), fmt.Errorf("perceptual pass: %w", err)
	default:
		r.Perceptual = res.Annotations
		r.DecodeFailures = res.Failed
		if n := len(res.Failed); n > 0 {
			r.Warnings = append(r.Warnings,
				fmt.Sprintf("perceptual analysis partial: %d photo(s) could not be decoded", n))
		}
		for i := range r.Photos {
			if fp, ok := res.Fingerprints[r.Photos[i].ID]; ok {
				r.Photos[i].Fingerprint = &fp
			}
		}
		Apply(r.Photos, r.Perceptual)
	}
	r.reach(cfg, StagePerceptualDone)

	r.finish()
	r.reach(cfg, StageComplete)
	return r, nil
}

// Groups maps each cluster id to its flagged followers, in report order.
func (r *Report) Groups() map[string][]Photo {
	groups := make(map[string][]Photo)
	for _, p := range r.Duplicates {
		if p.Group != "" {
			groups[p.Group] = append(groups[p.Group], p)
		}
	}
	return groups
}

// Stats summarises the report for display.
func (r *Report) Stats() Stats {
	return Stats{
		TotalPhotos:       len(r.Photos),
		Duplicates:        len(r.Duplicates),
		SpaceSavingsBytes: r.SpaceSavingsBytes,
	}
}

func (r *Report) reach(cfg *Config, stage Stage) {
	r.Stage = stage
	slog.Debug("photodedup: milestone", "stage", stage.String(),
		"exact", len(r.Exact), "content", len(r.Content), "perceptual", len(r.Perceptual))
	cfg.progress(stage)
}

// finish unions the applied passes into Duplicates, first occurrence wins.
func (r *Report) finish() *Report {
	index := make(map[string]int, len(r.Photos))
	for i := range r.Photos {
		index[r.Photos[i].ID] = i
	}

	seen := make(map[string]bool)
	r.Duplicates = r.Duplicates[:0]
	r.SpaceSavingsBytes = 0
	for _, pass := range [][]Annotation{r.Exact, r.Content, r.Perceptual} {
		for _, a := range pass {
			if seen[a.PhotoID] {
				continue
			}
			seen[a.PhotoID] = true
			p := r.Photos[index[a.PhotoID]]
			r.Duplicates = append(r.Duplicates, p)
			r.SpaceSavingsBytes += p.SizeBytes
		}
	}
	return r
}

func resetAnnotations(p *Photo) {
	p.Fingerprint = nil
	p.IsDuplicate = false
	p.Group = ""
	p.SimilarityScore = nil
}

// validateIDs rejects empty and repeated ids.
func validateIDs(photos []Photo) error {
	seen := make(map[string]bool, len(photos))
	for i := range photos {
		id := photos[i].ID
		if id == "" {
			return fmt.Errorf("%w: photo at index %d has no id", ErrInvalidArgument, i)
		}
		if seen[id] {
			return fmt.Errorf("%w: duplicate photo id %q", ErrInvalidArgument, id)
		}
		seen[id] = true
	}
	return nil
}
