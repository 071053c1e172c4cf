package trim_test

import (
	"math"
	"testing"

	"retake/internal/trim"
)

func TestMergeClose(t *testing.T) {
	intervals := []trim.Interval{
		{Start: 5, End: 7},
		{Start: 0, End: 2},
		{Start: 2, End: 3},
		{Start: 6.5, End: 8},
	}
	merged := trim.MergeClose(intervals)
	want := []trim.Interval{{Start: 0, End: 3}, {Start: 5, End: 8}}
	if len(merged) != len(want) {
		t.Fatalf("merged = %+v, want %+v", merged, want)
	}
	for i := range want {
		if merged[i] != want[i] {
			t.Errorf("merged[%d] = %+v, want %+v", i, merged[i], want[i])
		}
	}
}

func TestMergeCloseWithinEpsilon(t *testing.T) {
	intervals := []trim.Interval{
		{Start: 0, End: 1},
		{Start: 1 + trim.Epsilon/2, End: 2},
	}
	merged := trim.MergeClose(intervals)
	if len(merged) != 1 {
		t.Fatalf("sub-epsilon gap should merge, got %+v", merged)
	}
}

func TestComplement(t *testing.T) {
	drops := []trim.Interval{{Start: 2, End: 4}, {Start: 7, End: 8}}
	kept := trim.Complement(drops, 10)
	want := []trim.Interval{{Start: 0, End: 2}, {Start: 4, End: 7}, {Start: 8, End: 10}}
	if len(kept) != len(want) {
		t.Fatalf("kept = %+v, want %+v", kept, want)
	}
	for i := range want {
		if kept[i] != want[i] {
			t.Errorf("kept[%d] = %+v, want %+v", i, kept[i], want[i])
		}
	}
}

func TestComplementEdges(t *testing.T) {
	if kept := trim.Complement(nil, 5); len(kept) != 1 || kept[0] != (trim.Interval{Start: 0, End: 5}) {
		t.Errorf("no drops should keep everything, got %+v", kept)
	}
	if kept := trim.Complement([]trim.Interval{{Start: 0, End: 5}}, 5); len(kept) != 0 {
		t.Errorf("full drop should keep nothing, got %+v", kept)
	}
	// Drops reaching past the end are clamped.
	kept := trim.Complement([]trim.Interval{{Start: 4, End: 9}}, 5)
	if len(kept) != 1 || kept[0] != (trim.Interval{Start: 0, End: 4}) {
		t.Errorf("overhanging drop: got %+v", kept)
	}
}

func TestOffsetMapRoundTrip(t *testing.T) {
	kept := []trim.Interval{{Start: 1, End: 3}, {Start: 5, End: 6}, {Start: 8, End: 10}}
	m := trim.NewOffsetMap(kept)

	if got := m.CleanedDuration(); math.Abs(got-5) > 1e-9 {
		t.Fatalf("CleanedDuration = %g, want 5", got)
	}

	cases := []struct{ source, cleaned float64 }{
		{1, 0},
		{2, 1},
		{3, 2},
		{5, 2},
		{5.5, 2.5},
		{8, 3},
		{10, 5},
	}
	for _, tc := range cases {
		if got := m.ToCleaned(tc.source); math.Abs(got-tc.cleaned) > 1e-9 {
			t.Errorf("ToCleaned(%g) = %g, want %g", tc.source, got, tc.cleaned)
		}
	}

	// Round trip holds for any cleaned timestamp.
	for _, cleaned := range []float64{0, 0.5, 1.9, 2.0, 2.7, 3.1, 4.99} {
		source := m.ToSource(cleaned)
		if got := m.ToCleaned(source); math.Abs(got-cleaned) > 1e-9 {
			t.Errorf("round trip %g -> %g -> %g", cleaned, source, got)
		}
	}
}

func TestOffsetMapDroppedSpanCollapses(t *testing.T) {
	kept := []trim.Interval{{Start: 0, End: 2}, {Start: 4, End: 6}}
	m := trim.NewOffsetMap(kept)
	// A source timestamp inside the removed span lands where the cut closed.
	if got := m.ToCleaned(3); math.Abs(got-2) > 1e-9 {
		t.Errorf("ToCleaned(3) = %g, want 2", got)
	}
}

func TestTotalSeconds(t *testing.T) {
	got := trim.TotalSeconds([]trim.Interval{{Start: 0, End: 2}, {Start: 5, End: 5.5}})
	if math.Abs(got-2.5) > 1e-9 {
		t.Errorf("TotalSeconds = %g", got)
	}
}
