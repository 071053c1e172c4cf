package trim

import "sort"

// OffsetMap translates timestamps between the source timeline and the
// cleaned timeline that results from concatenating the kept intervals.
type OffsetMap struct {
	// breakpoints holds, per kept interval, its source start and the
	// cleaned-timeline position it lands at.
	breakpoints  []breakpoint
	cleanedTotal float64
}

type breakpoint struct {
	sourceStart  float64
	sourceEnd    float64
	cleanedStart float64
}

// NewOffsetMap builds the translation for kept, which must be merged and
// ordered (as produced by Complement).
func NewOffsetMap(kept []Interval) *OffsetMap {
	m := &OffsetMap{breakpoints: make([]breakpoint, 0, len(kept))}
	cursor := 0.0
	for _, iv := range kept {
		m.breakpoints = append(m.breakpoints, breakpoint{
			sourceStart:  iv.Start,
			sourceEnd:    iv.End,
			cleanedStart: cursor,
		})
		cursor += iv.Seconds()
	}
	m.cleanedTotal = cursor
	return m
}

// CleanedDuration returns the total length of the cleaned timeline.
func (m *OffsetMap) CleanedDuration() float64 {
	return m.cleanedTotal
}

// ToCleaned maps a source timestamp into the cleaned timeline. Timestamps
// inside a removed span collapse to the position where the cut closed.
func (m *OffsetMap) ToCleaned(source float64) float64 {
	if len(m.breakpoints) == 0 {
		return 0
	}
	idx := sort.Search(len(m.breakpoints), func(i int) bool {
		return m.breakpoints[i].sourceStart > source+Epsilon
	}) - 1
	if idx < 0 {
		return 0
	}
	bp := m.breakpoints[idx]
	offset := source - bp.sourceStart
	if limit := bp.sourceEnd - bp.sourceStart; offset > limit {
		offset = limit
	}
	return bp.cleanedStart + offset
}

// ToSource maps a cleaned-timeline timestamp back onto the source.
func (m *OffsetMap) ToSource(cleaned float64) float64 {
	if len(m.breakpoints) == 0 {
		return 0
	}
	idx := sort.Search(len(m.breakpoints), func(i int) bool {
		return m.breakpoints[i].cleanedStart > cleaned+Epsilon
	}) - 1
	if idx < 0 {
		return m.breakpoints[0].sourceStart
	}
	bp := m.breakpoints[idx]
	offset := cleaned - bp.cleanedStart
	if limit := bp.sourceEnd - bp.sourceStart; offset > limit {
		offset = limit
	}
	return bp.sourceStart + offset
}
