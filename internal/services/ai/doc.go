// Package ai provides chat-completion clients for the evaluation backends.
// Three wire dialects are supported (OpenAI-compatible, Ollama native, and
// Gemini); all expose the same single-attempt Client interface and leave
// retry policy to the evaluator.
package ai
