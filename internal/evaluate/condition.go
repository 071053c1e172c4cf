package evaluate

import (
	"strings"

	"retake/internal/textutil"
	"retake/internal/transcript"
)

// ConditionOptions bound segment size and silence before evaluation.
type ConditionOptions struct {
	// MaxChars splits segments whose text exceeds this many runes at
	// sentence boundaries. Zero disables splitting.
	MaxChars int
	// GapSeconds caps the silence between consecutive segments; a larger
	// gap is shortened by pulling the later start forward.
	GapSeconds float64
}

// ConditionSegments prepares raw engine output for evaluation: overlong
// segments are split at sentence punctuation with their time divided in
// proportion to text length, and gaps wider than the threshold are
// tightened so drop intervals stay anchored to speech.
func ConditionSegments(segments []transcript.Segment, opts ConditionOptions) []transcript.Segment {
	var out []transcript.Segment
	for _, seg := range segments {
		if opts.MaxChars > 0 && textutil.RuneCount(seg.Text) > opts.MaxChars {
			out = append(out, splitAtSentences(seg)...)
			continue
		}
		out = append(out, seg)
	}

	if opts.GapSeconds > 0 {
		for i := 1; i < len(out); i++ {
			gap := out[i].Start - out[i-1].End
			if gap > opts.GapSeconds {
				out[i].Start = out[i-1].End + opts.GapSeconds
			}
		}
	}
	return out
}

// splitAtSentences divides seg at sentence-final punctuation, prorating the
// time span by each piece's share of the text. A segment with no internal
// boundary is returned unchanged.
func splitAtSentences(seg transcript.Segment) []transcript.Segment {
	pieces := sentencePieces(seg.Text)
	if len(pieces) < 2 {
		return []transcript.Segment{seg}
	}

	total := 0
	for _, p := range pieces {
		total += len([]rune(p))
	}

	span := seg.End - seg.Start
	out := make([]transcript.Segment, 0, len(pieces))
	cursor := seg.Start
	for i, p := range pieces {
		ratio := float64(len([]rune(p))) / float64(total)
		end := cursor + span*ratio
		if i == len(pieces)-1 {
			end = seg.End
		}
		out = append(out, transcript.Segment{
			Start:      cursor,
			End:        end,
			Text:       strings.TrimSpace(p),
			Confidence: seg.Confidence,
		})
		cursor = end
	}
	return out
}

// sentencePieces cuts text after each sentence-final rune, keeping the
// punctuation attached to its sentence.
func sentencePieces(text string) []string {
	var pieces []string
	var current strings.Builder
	for _, r := range text {
		current.WriteRune(r)
		if textutil.IsSentencePunct(r) {
			if piece := strings.TrimSpace(current.String()); piece != "" {
				pieces = append(pieces, piece)
			}
			current.Reset()
		}
	}
	if piece := strings.TrimSpace(current.String()); piece != "" {
		pieces = append(pieces, piece)
	}
	return pieces
}
