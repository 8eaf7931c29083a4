package photodedup

// MatchKind names the pass that flagged a duplicate.
type MatchKind string

const (
	MatchExact      MatchKind = "exact"
	MatchContent    MatchKind = "content"
	MatchPerceptual MatchKind = "similar"
)

// Annotation is the delta a pass produces for one follower.
type Annotation struct {
	PhotoID  string
	AnchorID string    // first-seen member of the cluster
	Group    string    // cluster id shared by all followers of the anchor
	Kind     MatchKind // pass that produced the match
	Score    *float64  // similarity to the anchor; perceptual pass only
}

// joinFunc reports whether photos[j] joins the cluster anchored at photos[i],
// and the score to record for it, if any.
type joinFunc func(i, j int) (ok bool, score *float64)

// cluster runs the forward single pass shared by all detectors. Anchors are
// picked by first appearance. A photo that joins a cluster is marked
// processed at once, so it can neither anchor nor join another cluster.
// Photos for which eligible returns false take no part at all.
func cluster(photos []Photo, kind MatchKind, ids GroupIDs, eligible func(int) bool, join joinFunc) []Annotation {
	if eligible == nil {
		eligible = func(int) bool { return true }
	}

	processed := make(map[string]bool, len(photos))
	var out []Annotation

	for i := range photos {
		if processed[photos[i].ID] || !eligible(i) {
			continue
		}

		var followers []Annotation
		for j := i + 1; j < len(photos); j++ {
			if processed[photos[j].ID] || !eligible(j) {
				continue
			}
			ok, score := join(i, j)
			if !ok {
				continue
			}
			processed[photos[j].ID] = true
			followers = append(followers, Annotation{
				PhotoID:  photos[j].ID,
				AnchorID: photos[i].ID,
				Kind:     kind,
				Score:    score,
			})
		}

		if len(followers) > 0 {
			group := ids.NextGroupID(kind)
			for k := range followers {
				followers[k].Group = group
			}
			out = append(out, followers...)
		}
		processed[photos[i].ID] = true
	}

	return out
}

// Apply writes annotations onto the matching photos in place.
// IsDuplicate only ever goes from false to true; Group and, for scored
// matches, SimilarityScore take the latest annotation's values.
// Annotations for unknown ids are ignored.
func Apply(photos []Photo, anns []Annotation) {
	index := make(map[string]int, len(photos))
	for i := range photos {
		index[photos[i].ID] = i
	}
	for _, a := range anns {
		i, ok := index[a.PhotoID]
		if !ok {
			continue
		}
		p := &photos[i]
		p.IsDuplicate = true
		p.Group = a.Group
		if a.Score != nil {
			s := *a.Score
			p.SimilarityScore = &s
		}
	}
}
