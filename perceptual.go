package photodedup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// PerceptualResult is the outcome of a perceptual pass.
type PerceptualResult struct {
	Annotations  []Annotation           // followers in detection order
	Fingerprints map[string]Fingerprint // by photo id, decoded photos only
	Failed       []string               // ids that could not be decoded, input order
}

// DetectPerceptual fingerprints every photo and clusters those whose
// similarity to a cluster anchor is at least threshold. Photos that fail to
// decode are logged and left out of both roles. The pass fails with
// ErrUnavailable when the decoder has no backend, and with
// ErrInvalidArgument when threshold is outside (0,1].
func (cfg *Config) DetectPerceptual(ctx context.Context, photos []Photo, threshold float64) (*PerceptualResult, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}
	cfg.defaults()
	return detectPerceptual(ctx, photos, threshold, cfg.Decoder, cfg.Workers, cfg.groupIDs())
}

func validateThreshold(threshold float64) error {
	if !(threshold > 0 && threshold <= 1) {
		return fmt.Errorf("%w: threshold %v outside (0,1]", ErrInvalidArgument, threshold)
	}
	return nil
}

func detectPerceptual(ctx context.Context, photos []Photo, threshold float64, dec Decoder, workers int, ids GroupIDs) (*PerceptualResult, error) {
	fps, failed, err := fingerprintAll(ctx, photos, dec, workers)
	if err != nil {
		return nil, err
	}

	anns := cluster(photos, MatchPerceptual, ids,
		func(i int) bool { return !fps[i].IsZero() },
		func(i, j int) (bool, *float64) {
			sim, err := Similarity(fps[i], fps[j])
			if err != nil {
				// All fingerprints come from one generator; a length
				// mismatch is a bug, not bad input.
				panic(err)
			}
			if sim < threshold {
				return false, nil
			}
			return true, &sim
		})

	res := &PerceptualResult{
		Annotations:  anns,
		Fingerprints: make(map[string]Fingerprint, len(photos)),
		Failed:       failed,
	}
	for i, fp := range fps {
		if !fp.IsZero() {
			res.Fingerprints[photos[i].ID] = fp
		}
	}
	return res, nil
}

// fingerprintAll hashes photos on at most workers goroutines. Each goroutine
// decodes into its own buffers and writes only its own slot; Wait is the
// barrier before clustering. Decode failures leave a zero fingerprint.
func fingerprintAll(ctx context.Context, photos []Photo, dec Decoder, workers int) ([]Fingerprint, []string, error) {
	fps := make([]Fingerprint, len(photos))
	errs := make([]error, len(photos))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range photos {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fp, err := generateFingerprint(dec, photos[i])
			if errors.Is(err, ErrUnavailable) {
				return err
			}
			fps[i], errs[i] = fp, err
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var failed []string
	for i, err := range errs {
		if err == nil {
			continue
		}
		slog.Warn("photodedup: fingerprint failed", "id", photos[i].ID, "name", photos[i].Name, "error", err.Error())
		failed = append(failed, photos[i].ID)
	}
	return fps, failed, nil
}
