package trim

import "sort"

// Epsilon is the timeline tolerance used when comparing or merging
// intervals, one sample at 16 kHz.
const Epsilon = 1.0 / 16000

// Interval is a half-open [Start, End) span in seconds on one timeline.
type Interval struct {
	Start float64
	End   float64
}

// Seconds returns the interval length.
func (iv Interval) Seconds() float64 {
	return iv.End - iv.Start
}

// MergeClose sorts intervals and merges any that overlap or sit within
// Epsilon of each other, returning a minimal ordered set.
func MergeClose(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}
	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End+Epsilon {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

// Complement returns the spans of [0, duration) not covered by drops.
// drops must be merged and ordered; spans shorter than Epsilon are
// discarded as timeline noise.
func Complement(drops []Interval, duration float64) []Interval {
	var kept []Interval
	cursor := 0.0
	for _, d := range drops {
		start := clamp(d.Start, 0, duration)
		end := clamp(d.End, 0, duration)
		if start-cursor > Epsilon {
			kept = append(kept, Interval{Start: cursor, End: start})
		}
		if end > cursor {
			cursor = end
		}
	}
	if duration-cursor > Epsilon {
		kept = append(kept, Interval{Start: cursor, End: duration})
	}
	return kept
}

// TotalSeconds sums the lengths of intervals.
func TotalSeconds(intervals []Interval) float64 {
	total := 0.0
	for _, iv := range intervals {
		total += iv.Seconds()
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
