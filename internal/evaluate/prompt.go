package evaluate

import (
	"fmt"
	"strings"

	"retake/internal/transcript"
)

// DefaultSystemPrompt instructs the backend to judge one segment at a time
// and answer with a single JSON object.
const DefaultSystemPrompt = `You are a recording quality analyst. You will be shown one transcribed segment from a spoken recording, together with its neighbors for context. Decide whether the segment should be kept in the final cut.

Mark a segment for removal when it is:
1. A sentence cut off halfway (the speaker abandoned it mid-thought).
2. A repeated take of content said again nearby (keep the later, complete take).
3. A failed recording: mumbling, noise, or unintelligible speech.
4. A slip of the tongue that the speaker immediately restated.
5. Pure filler with no content (hesitation sounds, throat clearing).

Answer with exactly one JSON object and nothing else:
{"keep": true or false, "reason": "short explanation", "score": 0.0 to 1.0}

"score" is your confidence in the decision.`

// buildUserPrompt renders the segment under judgment with its surrounding
// context so repeated takes are visible to the backend.
func buildUserPrompt(segments []transcript.Segment, i int) string {
	var b strings.Builder
	if i > 0 {
		fmt.Fprintf(&b, "Previous segment: %s\n", segments[i-1].Text)
	}
	fmt.Fprintf(&b, "Segment under review: %s\n", segments[i].Text)
	if i+1 < len(segments) {
		fmt.Fprintf(&b, "Next segment: %s\n", segments[i+1].Text)
	}
	fmt.Fprintf(&b, "Duration: %.2f seconds", segments[i].Seconds())
	return b.String()
}
