package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"retake/internal/services"
)

// Request is one evaluation prompt pair sent to the backend.
type Request struct {
	SystemPrompt string
	UserPrompt   string
}

// Response carries the model's reply text plus the raw body for diagnostics.
type Response struct {
	Content string
	RawBody []byte
}

// Health is the result of a connectivity probe.
type Health struct {
	Reachable bool
	Latency   time.Duration
	Detail    string
}

// Client talks to one evaluation backend. Implementations issue a single
// attempt per call; retry policy belongs to the caller.
type Client interface {
	Evaluate(ctx context.Context, req Request) (*Response, error)
	TestConnection(ctx context.Context) Health
	Dialect() string
}

// Config selects and parameterizes a backend dialect.
type Config struct {
	Format         string
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// New builds the client for cfg.Format.
func New(cfg Config) (Client, error) {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	switch cfg.Format {
	case "openai":
		return newOpenAIClient(cfg, httpClient), nil
	case "ollama":
		return newOllamaClient(cfg, httpClient), nil
	case "gemini":
		return newGeminiClient(cfg, httpClient), nil
	default:
		return nil, services.Wrap(services.ErrConfiguration, "ai", "new client",
			fmt.Sprintf("unsupported backend format %q", cfg.Format), nil)
	}
}

// probe issues a trivial request through client and reports reachability.
func probe(ctx context.Context, client Client) Health {
	started := time.Now()
	_, err := client.Evaluate(ctx, Request{
		UserPrompt: "Reply with the single word: ok",
	})
	health := Health{Latency: time.Since(started)}
	if err != nil {
		health.Detail = err.Error()
		return health
	}
	health.Reachable = true
	return health
}
