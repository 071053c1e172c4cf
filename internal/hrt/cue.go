package hrt

// Cue is one display unit of the subtitle file. Times are seconds on the
// cleaned-audio timeline.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// Seconds returns the cue's display duration.
func (c Cue) Seconds() float64 {
	return c.End - c.Start
}
