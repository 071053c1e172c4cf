package evaluate

import "retake/internal/transcript"

// Verdict records the keep/drop decision for one conditioned segment.
type Verdict struct {
	Index   int
	Segment transcript.Segment
	Keep    bool
	// Reason explains a drop, or why the backend was skipped.
	Reason string
	// Score is the backend's confidence in its decision, negative when the
	// backend reported none.
	Score float64
}

// Dropped filters verdicts down to the segments marked for removal.
func Dropped(verdicts []Verdict) []Verdict {
	var out []Verdict
	for _, v := range verdicts {
		if !v.Keep {
			out = append(out, v)
		}
	}
	return out
}

// Kept filters verdicts down to the retained segments.
func Kept(verdicts []Verdict) []Verdict {
	var out []Verdict
	for _, v := range verdicts {
		if v.Keep {
			out = append(out, v)
		}
	}
	return out
}
