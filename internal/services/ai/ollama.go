package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"retake/internal/services"
)

type ollamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

func newOllamaClient(cfg Config, httpClient *http.Client) *ollamaClient {
	return &ollamaClient{
		baseURL:    NormalizeBaseURL("ollama", cfg.BaseURL),
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

func (c *ollamaClient) Dialect() string { return "ollama" }

type ollamaRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  struct {
		Temperature float64 `json:"temperature"`
	} `json:"options"`
}

type ollamaResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Error string `json:"error"`
}

func (c *ollamaClient) Evaluate(ctx context.Context, req Request) (*Response, error) {
	payload := ollamaRequest{
		Model:    c.model,
		Messages: chatMessages(req),
		Stream:   false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "encode request", "", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat", bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "build request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	raw, err := doJSON(c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}

	var decoded ollamaResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "decode response", "", err)
	}
	if decoded.Error != "" {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "evaluate", decoded.Error, nil)
	}
	return &Response{Content: decoded.Message.Content, RawBody: raw}, nil
}

func (c *ollamaClient) TestConnection(ctx context.Context) Health {
	return probe(ctx, c)
}
