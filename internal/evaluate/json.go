package evaluate

import (
	"encoding/json"
	"fmt"
	"strings"
)

// modelVerdict is the JSON shape backends are asked to produce.
type modelVerdict struct {
	Keep   *bool   `json:"keep"`
	Reason string  `json:"reason"`
	Score  float64 `json:"score"`
}

// DecodeModelJSON parses a JSON object out of a model reply, tolerating the
// markdown fences and prose framing chat models like to add.
func DecodeModelJSON(content string, v any) error {
	cleaned := stripFences(content)
	start := strings.IndexByte(cleaned, '{')
	end := strings.LastIndexByte(cleaned, '}')
	if start < 0 || end <= start {
		return fmt.Errorf("reply contains no JSON object: %q", truncateReply(content))
	}
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), v); err != nil {
		return fmt.Errorf("decode reply JSON: %w", err)
	}
	return nil
}

func stripFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func truncateReply(s string) string {
	const limit = 120
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
