package hrt

import (
	"strings"
	"unicode"

	"retake/internal/textutil"
	"retake/internal/transcript"
)

// Options bound cue display timing.
type Options struct {
	// MinSeconds is the display floor; shorter cues are extended into
	// trailing silence or merged with a neighbor. The final cue is exempt.
	MinSeconds float64
	// MaxSeconds is the display ceiling; longer cues are split.
	MaxSeconds float64
	// MergeSilence is the largest gap across which adjacent segments are
	// merged into one cue.
	MergeSilence float64
}

// DefaultOptions returns the standard 2-5 second display window.
func DefaultOptions() Options {
	return Options{MinSeconds: 2.0, MaxSeconds: 5.0, MergeSilence: 0.5}
}

// fillers are hesitation sounds that carry no content on their own. A
// segment consisting only of these is an artifact, not a cue.
var fillers = map[string]struct{}{
	"嗯": {}, "啊": {}, "呃": {}, "哦": {}, "那个": {},
	"um": {}, "uh": {}, "er": {}, "hmm": {}, "mm": {},
}

// BuildCues turns cleaned-timeline segments into display cues. The pass
// order is normalize, discard, merge, enforce the floor, then split
// anything still over the ceiling.
func BuildCues(segments []transcript.Segment, opts Options) []Cue {
	if opts.MinSeconds <= 0 {
		opts.MinSeconds = 2.0
	}
	if opts.MaxSeconds <= opts.MinSeconds {
		opts.MaxSeconds = opts.MinSeconds + 3.0
	}

	cues := normalize(segments)
	cues = mergeAdjacent(cues, opts)
	cues = enforceFloor(cues, opts)
	cues = splitLong(cues, opts)
	return cues
}

func normalize(segments []transcript.Segment) []Cue {
	var cues []Cue
	for _, seg := range segments {
		text := textutil.NormalizeCueText(seg.Text)
		core := textutil.TrimEdgePunct(text)
		if core == "" {
			continue
		}
		if _, isFiller := fillers[strings.ToLower(core)]; isFiller {
			continue
		}
		// Drop a leading punctuation fragment left behind by a cut, keep
		// legitimate trailing punctuation.
		text = strings.TrimLeftFunc(text, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsPunct(r)
		})
		cues = append(cues, Cue{Start: seg.Start, End: seg.End, Text: text})
	}
	return cues
}

func mergeAdjacent(cues []Cue, opts Options) []Cue {
	if len(cues) == 0 {
		return nil
	}
	merged := []Cue{cues[0]}
	for _, cue := range cues[1:] {
		last := &merged[len(merged)-1]
		gap := cue.Start - last.End
		if gap < opts.MergeSilence && cue.End-last.Start <= opts.MaxSeconds {
			last.End = cue.End
			last.Text = joinText(last.Text, cue.Text)
			continue
		}
		merged = append(merged, cue)
	}
	return merged
}

// enforceFloor extends short cues into the silence before their successor,
// or merges them with it when no room exists. The last cue has nothing to
// borrow from and stays as is.
func enforceFloor(cues []Cue, opts Options) []Cue {
	var out []Cue
	for i := 0; i < len(cues); i++ {
		cue := cues[i]
		for cue.Seconds() < opts.MinSeconds && i+1 < len(cues) {
			next := cues[i+1]
			target := cue.Start + opts.MinSeconds
			if target <= next.Start {
				cue.End = target
				break
			}
			// No room before the next cue starts; absorb it instead.
			cue.End = next.End
			cue.Text = joinText(cue.Text, next.Text)
			i++
		}
		out = append(out, cue)
	}
	return out
}

func splitLong(cues []Cue, opts Options) []Cue {
	var out []Cue
	for _, cue := range cues {
		out = append(out, splitCue(cue, opts)...)
	}
	return out
}

func splitCue(cue Cue, opts Options) []Cue {
	if cue.Seconds() <= opts.MaxSeconds {
		return []Cue{cue}
	}
	runes := []rune(cue.Text)
	if len(runes) < 2 {
		return []Cue{cue}
	}

	cut := splitPoint(runes)
	left := strings.TrimSpace(string(runes[:cut]))
	right := strings.TrimSpace(string(runes[cut:]))
	if left == "" || right == "" {
		return []Cue{cue}
	}

	// Divide the span by each half's share of the text.
	ratio := float64(len([]rune(left))) / float64(len(runes))
	mid := cue.Start + cue.Seconds()*ratio
	first := Cue{Start: cue.Start, End: mid, Text: left}
	second := Cue{Start: mid, End: cue.End, Text: right}
	return append(splitCue(first, opts), splitCue(second, opts)...)
}

// splitPoint picks the cut index: the sentence boundary nearest the text
// midpoint, then a word boundary, then the midpoint itself.
func splitPoint(runes []rune) int {
	mid := len(runes) / 2
	best := -1
	for i, r := range runes[:len(runes)-1] {
		if textutil.IsSentencePunct(r) || textutil.IsPausePunct(r) {
			if best < 0 || abs(i+1-mid) < abs(best-mid) {
				best = i + 1
			}
		}
	}
	if best > 0 {
		return best
	}
	for i, r := range runes[:len(runes)-1] {
		if unicode.IsSpace(r) {
			if best < 0 || abs(i-mid) < abs(best-mid) {
				best = i
			}
		}
	}
	if best > 0 {
		return best
	}
	return mid
}

// joinText concatenates cue text, inserting a space only between scripts
// that use one.
func joinText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	aRunes := []rune(a)
	bRunes := []rune(b)
	if isCJK(aRunes[len(aRunes)-1]) || isCJK(bRunes[0]) {
		return a + b
	}
	return a + " " + b
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
