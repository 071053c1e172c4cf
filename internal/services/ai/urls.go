package ai

import "strings"

const (
	defaultOpenAIBase = "https://api.openai.com/v1"
	defaultOllamaBase = "http://localhost:11434"
)

// NormalizeBaseURL applies the per-dialect base URL conventions:
//
//   - openai: "/v1" is appended when the path does not already end in it, so
//     both "https://api.openai.com" and OpenAI-compatible gateways that ship
//     the suffix work unchanged.
//   - ollama: defaults to the local daemon and gains the "/api" prefix the
//     native chat endpoint lives under.
//   - gemini: used verbatim; Google's endpoint paths embed an API version
//     that callers may need to pin.
func NormalizeBaseURL(dialect, base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	switch dialect {
	case "openai":
		if base == "" {
			return defaultOpenAIBase
		}
		if !strings.HasSuffix(base, "/v1") {
			base += "/v1"
		}
		return base
	case "ollama":
		if base == "" {
			base = defaultOllamaBase
		}
		if !strings.HasSuffix(base, "/api") {
			base += "/api"
		}
		return base
	default:
		return base
	}
}
