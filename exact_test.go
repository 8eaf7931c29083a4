package photodedup

import (
	"slices"
	"testing"
)

// metaPhoto returns a photo with metadata only.
func metaPhoto(id, name string, size int64) Photo {
	return Photo{ID: id, Name: name, SizeBytes: size, MIMEType: "image/jpeg"}
}

func followerIDs(anns []Annotation) []string {
	ids := make([]string, 0, len(anns))
	for _, a := range anns {
		ids = append(ids, a.PhotoID)
	}
	return ids
}

func TestDetectExact(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		photos []Photo
		want   []string
	}{
		{
			name: "same name and close size",
			photos: []Photo{
				metaPhoto("1", "img.jpg", 100000),
				metaPhoto("2", "img.jpg", 100500),
			},
			want: []string{"2"},
		},
		{
			name: "name alone is enough",
			photos: []Photo{
				metaPhoto("1", "img.jpg", 1000),
				metaPhoto("2", "img.jpg", 90000),
			},
			want: []string{"2"},
		},
		{
			name: "size alone is enough",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 100000),
				metaPhoto("2", "b.jpg", 109999),
			},
			want: []string{"2"},
		},
		{
			name: "ten percent is not close",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 100000),
				metaPhoto("2", "b.jpg", 110000),
			},
			want: []string{},
		},
		{
			name: "ratio is relative to the anchor",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 1000),
				metaPhoto("2", "b.jpg", 909),
			},
			want: []string{"2"},
		},
		{
			name: "empty anchor matches empty file",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 0),
				metaPhoto("2", "b.jpg", 0),
			},
			want: []string{"2"},
		},
		{
			name: "empty anchor does not match non-empty file",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 0),
				metaPhoto("2", "b.jpg", 5),
			},
			want: []string{},
		},
		{
			name: "follower cannot anchor later photos",
			photos: []Photo{
				metaPhoto("1", "a.jpg", 100),
				metaPhoto("2", "b.jpg", 105),
				metaPhoto("3", "c.jpg", 111),
			},
			want: []string{"2"},
		},
		{
			name:   "single photo",
			photos: []Photo{metaPhoto("1", "a.jpg", 100)},
			want:   []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := followerIDs((&Config{}).DetectExact(tc.photos))
			if !slices.Equal(got, tc.want) {
				t.Errorf("followers = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDetectExact_BothTriggersJoinOnce(t *testing.T) {
	t.Parallel()

	anns := (&Config{}).DetectExact([]Photo{
		metaPhoto("1", "img.jpg", 5000),
		metaPhoto("2", "img.jpg", 5000),
	})
	if len(anns) != 1 {
		t.Fatalf("got %d annotations, want 1", len(anns))
	}
	a := anns[0]
	if a.PhotoID != "2" || a.AnchorID != "1" || a.Kind != MatchExact || a.Group != "exact-1" {
		t.Errorf("unexpected annotation %+v", a)
	}
	if a.Score != nil {
		t.Error("exact matches carry no similarity score")
	}
}

func TestDetectExact_ClustersAndExclusivity(t *testing.T) {
	t.Parallel()

	photos := []Photo{
		metaPhoto("a1", "beach.jpg", 1000),
		metaPhoto("b1", "dog.jpg", 5000),
		metaPhoto("a2", "beach-copy.jpg", 1020),
		metaPhoto("b2", "dog.jpg", 9000),
		metaPhoto("a3", "beach.jpg", 3000),
		metaPhoto("c1", "cat.jpg", 20000),
	}

	anns := (&Config{}).DetectExact(photos)

	want := []Annotation{
		{PhotoID: "a2", AnchorID: "a1", Group: "exact-1", Kind: MatchExact},
		{PhotoID: "a3", AnchorID: "a1", Group: "exact-1", Kind: MatchExact},
		{PhotoID: "b2", AnchorID: "b1", Group: "exact-2", Kind: MatchExact},
	}
	if !slices.Equal(anns, want) {
		t.Fatalf("annotations = %+v, want %+v", anns, want)
	}

	seen := make(map[string]bool)
	anchors := make(map[string]bool)
	for _, a := range anns {
		if seen[a.PhotoID] {
			t.Errorf("photo %s appears in two clusters", a.PhotoID)
		}
		seen[a.PhotoID] = true
		anchors[a.AnchorID] = true
	}
	for id := range anchors {
		if seen[id] {
			t.Errorf("anchor %s was flagged as a follower", id)
		}
	}
}

func TestDetectExact_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	photos := []Photo{
		metaPhoto("1", "img.jpg", 100),
		metaPhoto("2", "img.jpg", 100),
	}
	(&Config{}).DetectExact(photos)
	for _, p := range photos {
		if p.IsDuplicate || p.Group != "" {
			t.Errorf("photo %s was mutated: %+v", p.ID, p)
		}
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	score := 0.9
	photos := []Photo{
		metaPhoto("1", "a.jpg", 100),
		metaPhoto("2", "b.jpg", 100),
		metaPhoto("3", "c.jpg", 100),
	}
	Apply(photos, []Annotation{
		{PhotoID: "2", AnchorID: "1", Group: "exact-1", Kind: MatchExact},
		{PhotoID: "2", AnchorID: "3", Group: "similar-2", Kind: MatchPerceptual, Score: &score},
		{PhotoID: "missing", Group: "exact-1"},
	})

	if photos[0].IsDuplicate || photos[2].IsDuplicate {
		t.Error("anchors must stay unflagged")
	}
	p := photos[1]
	if !p.IsDuplicate || p.Group != "similar-2" {
		t.Errorf("photo 2 = %+v, want duplicate in similar-2", p)
	}
	if p.SimilarityScore == nil || *p.SimilarityScore != 0.9 {
		t.Errorf("SimilarityScore = %v, want 0.9", p.SimilarityScore)
	}
	score = 0.1
	if *p.SimilarityScore != 0.9 {
		t.Error("Apply must copy the score, not alias it")
	}
}
