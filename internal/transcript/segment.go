package transcript

import (
	"strings"
	"time"
)

// Segment is one recognized span of speech on the source timeline. Times are
// seconds from the start of the audio.
type Segment struct {
	Start float64
	End   float64
	Text  string
	// Confidence is the engine's score in [0,1]. Negative means the engine
	// reported none.
	Confidence float64
}

// Duration returns the segment length as a time.Duration.
func (s Segment) Duration() time.Duration {
	return time.Duration((s.End - s.Start) * float64(time.Second))
}

// Seconds returns the segment length in seconds.
func (s Segment) Seconds() float64 {
	return s.End - s.Start
}

// IsEmpty reports whether the segment carries no text after trimming.
func (s Segment) IsEmpty() bool {
	return strings.TrimSpace(s.Text) == ""
}
