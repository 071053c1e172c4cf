package hrt

import (
	"fmt"
	"os"
	"strings"

	"retake/internal/transcript"
)

// Format renders cues in the subtitle file layout: a 1-based index line, a
// timing line with millisecond precision, the cue text, and a blank
// separator line.
func Format(cues []Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1,
			transcript.FormatTimestamp(cue.Start, '.'),
			transcript.FormatTimestamp(cue.End, '.'),
			cue.Text)
	}
	return b.String()
}

// WriteFile serializes cues to path.
func WriteFile(path string, cues []Cue) error {
	return os.WriteFile(path, []byte(Format(cues)), 0o644)
}
