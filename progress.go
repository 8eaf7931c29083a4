package photodedup

// Stage is a coarse milestone of an Aggregate run.
type Stage int

const (
	StageStarted Stage = iota
	StageExactDone
	StageContentDone
	StagePerceptualDone
	StageComplete
)

// Progress is reported to Config.OnProgress. Percent never decreases
// within a run.
type Progress struct {
	Stage   Stage
	Percent int
}

// Percent maps the stage to a display percentage.
func (s Stage) Percent() int {
	switch s {
	case StageExactDone:
		return 40
	case StageContentDone:
		return 55
	case StagePerceptualDone:
		return 90
	case StageComplete:
		return 100
	default:
		return 0
	}
}

func (s Stage) String() string {
	switch s {
	case StageStarted:
		return "started"
	case StageExactDone:
		return "exact-done"
	case StageContentDone:
		return "content-done"
	case StagePerceptualDone:
		return "perceptual-done"
	case StageComplete:
		return "complete"
	default:
		return "unknown"
	}
}
