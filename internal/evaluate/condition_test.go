package evaluate_test

import (
	"math"
	"testing"

	"retake/internal/evaluate"
	"retake/internal/transcript"
)

func TestConditionSplitsLongSegments(t *testing.T) {
	segments := []transcript.Segment{{
		Start:      10.0,
		End:        20.0,
		Text:       "第一句话。第二句话比较长一点。",
		Confidence: 0.9,
	}}
	out := evaluate.ConditionSegments(segments, evaluate.ConditionOptions{MaxChars: 10})
	if len(out) != 2 {
		t.Fatalf("expected 2 pieces, got %d: %+v", len(out), out)
	}
	if out[0].Text != "第一句话。" || out[1].Text != "第二句话比较长一点。" {
		t.Errorf("pieces = %q, %q", out[0].Text, out[1].Text)
	}
	if out[0].Start != 10.0 || out[1].End != 20.0 {
		t.Errorf("outer bounds moved: [%g, %g]", out[0].Start, out[1].End)
	}
	if math.Abs(out[0].End-out[1].Start) > 1e-9 {
		t.Errorf("pieces not contiguous: %g vs %g", out[0].End, out[1].Start)
	}
	// Time divides by text share: piece one carries 5 of 15 runes.
	wantEnd := 10.0 + 10.0*(5.0/15.0)
	if math.Abs(out[0].End-wantEnd) > 1e-9 {
		t.Errorf("piece one end = %g, want %g", out[0].End, wantEnd)
	}
	if out[0].Confidence != 0.9 {
		t.Errorf("confidence not inherited: %g", out[0].Confidence)
	}
}

func TestConditionLeavesUnsplittableAlone(t *testing.T) {
	segments := []transcript.Segment{{
		Start: 0,
		End:   5,
		Text:  "一段没有任何句号标点的很长的话一直说下去",
	}}
	out := evaluate.ConditionSegments(segments, evaluate.ConditionOptions{MaxChars: 10})
	if len(out) != 1 || out[0].Text != segments[0].Text {
		t.Fatalf("segment without sentence boundary should pass through, got %+v", out)
	}
}

func TestConditionTightensWideGaps(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 0, End: 2, Text: "a"},
		{Start: 7, End: 9, Text: "b"},
		{Start: 9.5, End: 10, Text: "c"},
	}
	out := evaluate.ConditionSegments(segments, evaluate.ConditionOptions{GapSeconds: 1.0})
	if out[1].Start != 3.0 {
		t.Errorf("wide gap should shrink to threshold: start = %g, want 3", out[1].Start)
	}
	if out[2].Start != 9.5 {
		t.Errorf("narrow gap should be untouched: start = %g", out[2].Start)
	}
}

func TestConditionZeroOptionsIsIdentity(t *testing.T) {
	segments := []transcript.Segment{
		{Start: 0, End: 2, Text: "第一句话。第二句话。"},
		{Start: 10, End: 12, Text: "b"},
	}
	out := evaluate.ConditionSegments(segments, evaluate.ConditionOptions{})
	if len(out) != 2 || out[1].Start != 10 {
		t.Fatalf("zero options should change nothing, got %+v", out)
	}
}
