// Package language normalizes user-supplied language hints into the
// two-letter codes the recognition engine expects.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// Normalize maps a language hint to an ISO 639-1 code suitable for the
// engine's --language flag. It accepts full BCP 47 tags ("zh-Hans",
// "en-US"), bare codes, and common English names ("chinese"). An empty
// result means auto-detection.
func Normalize(hint string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	switch hint {
	case "", "auto":
		return ""
	}
	if code, ok := byName[hint]; ok {
		return code
	}
	tag, err := language.Parse(hint)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

var byName = map[string]string{
	"chinese":    "zh",
	"mandarin":   "zh",
	"english":    "en",
	"japanese":   "ja",
	"korean":     "ko",
	"french":     "fr",
	"german":     "de",
	"spanish":    "es",
	"portuguese": "pt",
	"russian":    "ru",
	"italian":    "it",
}
