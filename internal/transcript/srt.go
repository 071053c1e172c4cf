package transcript

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"retake/internal/services"
)

// ParseSRT decodes SubRip text into segments. Blocks are separated by blank
// lines; each block carries an index line, a timing line, and one or more
// text lines which are joined with single spaces. Millisecond separators may
// be a comma (classic SRT) or a period.
func ParseSRT(data []byte) ([]Segment, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimPrefix(text, "\ufeff")

	var segments []Segment
	for _, block := range strings.Split(text, "\n\n") {
		lines := nonEmptyLines(block)
		if len(lines) == 0 {
			continue
		}
		// The index line is optional in practice; skip it when present.
		timingIdx := 0
		if _, err := strconv.Atoi(strings.TrimSpace(lines[0])); err == nil && len(lines) > 1 {
			timingIdx = 1
		}
		start, end, err := parseTimingLine(lines[timingIdx])
		if err != nil {
			return nil, services.Wrap(services.ErrMalformedOutput, "transcript", "parse srt",
				fmt.Sprintf("block %d", len(segments)+1), err)
		}
		body := strings.Join(lines[timingIdx+1:], " ")
		segments = append(segments, Segment{
			Start:      start,
			End:        end,
			Text:       strings.TrimSpace(body),
			Confidence: -1,
		})
	}
	return segments, nil
}

func nonEmptyLines(block string) []string {
	var out []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}

func parseTimingLine(line string) (start, end float64, err error) {
	parts := strings.Split(line, "-->")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("timing line %q lacks separator", strings.TrimSpace(line))
	}
	if start, err = ParseTimestamp(strings.TrimSpace(parts[0])); err != nil {
		return 0, 0, err
	}
	if end, err = ParseTimestamp(strings.TrimSpace(parts[1])); err != nil {
		return 0, 0, err
	}
	if end < start {
		return 0, 0, fmt.Errorf("timing line %q runs backwards", strings.TrimSpace(line))
	}
	return start, end, nil
}

// ParseTimestamp reads HH:MM:SS,mmm (or HH:MM:SS.mmm) into seconds.
func ParseTimestamp(value string) (float64, error) {
	normalized := strings.ReplaceAll(value, ",", ".")
	fields := strings.Split(normalized, ":")
	if len(fields) != 3 {
		return 0, fmt.Errorf("timestamp %q is not HH:MM:SS format", value)
	}
	hours, err := strconv.Atoi(fields[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("timestamp %q has bad hours", value)
	}
	minutes, err := strconv.Atoi(fields[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("timestamp %q has bad minutes", value)
	}
	seconds, err := strconv.ParseFloat(fields[2], 64)
	if err != nil || seconds < 0 || seconds >= 60 {
		return 0, fmt.Errorf("timestamp %q has bad seconds", value)
	}
	return float64(hours)*3600 + float64(minutes)*60 + seconds, nil
}

// FormatTimestamp renders seconds as HH:MM:SS?mmm where ? is sep, rounding
// to the nearest millisecond.
func FormatTimestamp(seconds float64, sep byte) string {
	if seconds < 0 {
		seconds = 0
	}
	totalMillis := int64(math.Round(seconds * 1000))
	hours := totalMillis / 3_600_000
	totalMillis %= 3_600_000
	minutes := totalMillis / 60_000
	totalMillis %= 60_000
	secs := totalMillis / 1000
	millis := totalMillis % 1000
	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, secs, sep, millis)
}
