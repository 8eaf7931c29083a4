package photodedup

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"
)

func TestDetectPerceptual_Threshold(t *testing.T) {
	t.Parallel()

	// The two fingerprints differ in exactly 50 of 1024 bits.
	photos := []Photo{
		imagePhoto("a", splitImage(512)),
		imagePhoto("b", splitImage(562)),
	}

	tests := []struct {
		name      string
		threshold float64
		want      []string
	}{
		{name: "default threshold clusters", threshold: 0.85, want: []string{"b"}},
		{name: "exact similarity clusters", threshold: 1 - 50.0/1024, want: []string{"b"}},
		{name: "strict threshold separates", threshold: 0.97, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res, err := (&Config{}).DetectPerceptual(context.Background(), photos, tc.threshold)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := followerIDs(res.Annotations); !slices.Equal(got, tc.want) {
				t.Fatalf("followers = %v, want %v", got, tc.want)
			}
			if len(res.Annotations) == 1 {
				a := res.Annotations[0]
				if a.Score == nil || *a.Score != 1-50.0/1024 {
					t.Errorf("Score = %v, want %v", a.Score, 1-50.0/1024)
				}
				if a.Kind != MatchPerceptual || a.AnchorID != "a" || a.Group != "similar-1" {
					t.Errorf("unexpected annotation %+v", a)
				}
			}
			if len(res.Fingerprints) != 2 {
				t.Errorf("got %d fingerprints, want 2", len(res.Fingerprints))
			}
		})
	}
}

func TestDetectPerceptual_ScoreIsAgainstAnchor(t *testing.T) {
	t.Parallel()

	// b is 28 bits from a, c is 22 bits from a and 50 bits from b.
	photos := []Photo{
		imagePhoto("a", splitImage(512)),
		imagePhoto("b", splitImage(540)),
		imagePhoto("c", splitImage(490)),
	}

	res, err := (&Config{}).DetectPerceptual(context.Background(), photos, 0.97)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Annotations) != 2 {
		t.Fatalf("got %d annotations, want 2", len(res.Annotations))
	}
	want := map[string]float64{"b": 1 - 28.0/1024, "c": 1 - 22.0/1024}
	for _, a := range res.Annotations {
		if a.AnchorID != "a" {
			t.Errorf("%s anchored at %s, want a", a.PhotoID, a.AnchorID)
		}
		if *a.Score != want[a.PhotoID] {
			t.Errorf("%s score = %v, want %v", a.PhotoID, *a.Score, want[a.PhotoID])
		}
	}
}

func TestDetectPerceptual_InvalidThreshold(t *testing.T) {
	t.Parallel()

	for _, threshold := range []float64{0, -0.5, 1.0001, 2, math.NaN(), math.Inf(1)} {
		_, err := (&Config{}).DetectPerceptual(context.Background(), nil, threshold)
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("threshold %v: error = %v, want ErrInvalidArgument", threshold, err)
		}
	}
}

func TestDetectPerceptual_DecodeFailureIsSkipped(t *testing.T) {
	t.Parallel()

	photos := []Photo{
		{ID: "broken", Name: "broken.jpg", SizeBytes: 10, Source: BytesSource("garbage")},
		imagePhoto("a", splitImage(512)),
		imagePhoto("b", splitImage(512)),
	}

	res, err := (&Config{}).DetectPerceptual(context.Background(), photos, DefaultThreshold)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(res.Failed, []string{"broken"}) {
		t.Errorf("Failed = %v, want [broken]", res.Failed)
	}
	if _, ok := res.Fingerprints["broken"]; ok {
		t.Error("broken photo must have no fingerprint")
	}
	if got := followerIDs(res.Annotations); !slices.Equal(got, []string{"b"}) {
		t.Errorf("followers = %v, want [b]", got)
	}
	if res.Annotations[0].AnchorID != "a" {
		t.Errorf("anchor = %s, want a", res.Annotations[0].AnchorID)
	}
}

func TestDetectPerceptual_Unavailable(t *testing.T) {
	t.Parallel()

	cfg := &Config{Decoder: UnavailableDecoder{}}
	photos := []Photo{imagePhoto("a", splitImage(1)), imagePhoto("b", splitImage(1))}

	res, err := cfg.DetectPerceptual(context.Background(), photos, DefaultThreshold)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("error = %v, want ErrUnavailable", err)
	}
	if res != nil {
		t.Error("expected no result when the backend is missing")
	}
}

func TestDetectPerceptual_ThresholdMonotonic(t *testing.T) {
	t.Parallel()

	var photos []Photo
	for i, bright := range []int{512, 530, 300, 700, 505, 480, 900, 310, 512, 100} {
		photos = append(photos, imagePhoto(string(rune('a'+i)), splitImage(bright)))
	}

	prev := len(photos)
	for _, threshold := range []float64{0.5, 0.7, 0.85, 0.9, 0.95, 0.98, 0.99, 1} {
		res, err := (&Config{}).DetectPerceptual(context.Background(), photos, threshold)
		if err != nil {
			t.Fatalf("threshold %v: %v", threshold, err)
		}
		n := len(res.Annotations)
		if n > prev {
			t.Fatalf("threshold %v flagged %d photos, more than %d at a lower threshold", threshold, n, prev)
		}
		prev = n
	}
}

func TestDetectPerceptual_WorkerCountDoesNotChangeResult(t *testing.T) {
	t.Parallel()

	var photos []Photo
	for i, bright := range []int{512, 520, 100, 110, 900, 512, 890} {
		photos = append(photos, imagePhoto(string(rune('a'+i)), splitImage(bright)))
	}

	serial, err := (&Config{Workers: 1}).DetectPerceptual(context.Background(), photos, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	parallel, err := (&Config{Workers: 8}).DetectPerceptual(context.Background(), photos, 0.9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(serial.Annotations) != len(parallel.Annotations) {
		t.Fatalf("serial %d vs parallel %d annotations", len(serial.Annotations), len(parallel.Annotations))
	}
	for i := range serial.Annotations {
		s, p := serial.Annotations[i], parallel.Annotations[i]
		if s.PhotoID != p.PhotoID || s.AnchorID != p.AnchorID || s.Group != p.Group || *s.Score != *p.Score {
			t.Errorf("annotation %d differs: %+v vs %+v", i, s, p)
		}
	}
}
