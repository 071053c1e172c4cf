// Package textutil holds the text cleanup helpers shared by segment
// conditioning and cue building.
package textutil

import (
	"strings"
	"unicode"
)

// sentence-final punctuation in both ASCII and CJK forms.
var sentencePunct = map[rune]struct{}{
	'.': {}, '!': {}, '?': {}, ';': {},
	'。': {}, '！': {}, '？': {}, '；': {},
}

// pausePunct marks weaker break points used when no sentence boundary fits.
var pausePunct = map[rune]struct{}{
	',': {}, '，': {}, '、': {}, '…': {},
}

// IsSentencePunct reports whether r ends a sentence.
func IsSentencePunct(r rune) bool {
	_, ok := sentencePunct[r]
	return ok
}

// IsPausePunct reports whether r marks a pause inside a sentence.
func IsPausePunct(r rune) bool {
	_, ok := pausePunct[r]
	return ok
}

func isPunct(r rune) bool {
	return unicode.IsPunct(r) || IsSentencePunct(r) || IsPausePunct(r)
}

// NormalizeCueText collapses whitespace runs to single spaces and squeezes
// repeated punctuation ("！！！" becomes "！").
func NormalizeCueText(text string) string {
	fields := strings.Fields(text)
	joined := strings.Join(fields, " ")

	var b strings.Builder
	b.Grow(len(joined))
	var prev rune
	var havePrev bool
	for _, r := range joined {
		if havePrev && isPunct(r) && r == prev {
			continue
		}
		b.WriteRune(r)
		prev = r
		havePrev = true
	}
	return b.String()
}

// TrimEdgePunct strips leading and trailing punctuation and whitespace,
// leaving the spoken core of the text.
func TrimEdgePunct(text string) string {
	return strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || isPunct(r)
	})
}

// IsPunctuationOnly reports whether text carries no letters or digits.
func IsPunctuationOnly(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

// RuneCount counts runes excluding whitespace, the measure used for
// segment and cue length limits.
func RuneCount(text string) int {
	count := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			count++
		}
	}
	return count
}
