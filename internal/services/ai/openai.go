package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"retake/internal/services"
)

type openAIClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func newOpenAIClient(cfg Config, httpClient *http.Client) *openAIClient {
	return &openAIClient{
		baseURL:    NormalizeBaseURL("openai", cfg.BaseURL),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

func (c *openAIClient) Dialect() string { return "openai" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *openAIClient) Evaluate(ctx context.Context, req Request) (*Response, error) {
	payload := chatRequest{
		Model:       c.model,
		Messages:    chatMessages(req),
		Temperature: 0,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "encode request", "", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "build request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	raw, err := doJSON(c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}

	var decoded chatResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "decode response", "", err)
	}
	if decoded.Error != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "evaluate", decoded.Error.Message, nil)
	}
	if len(decoded.Choices) == 0 {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "evaluate", "response carried no choices", nil)
	}
	return &Response{Content: decoded.Choices[0].Message.Content, RawBody: raw}, nil
}

func (c *openAIClient) TestConnection(ctx context.Context) Health {
	return probe(ctx, c)
}

func chatMessages(req Request) []chatMessage {
	var messages []chatMessage
	if req.SystemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserPrompt})
	return messages
}

// doJSON executes the request and returns the body, translating transport
// and HTTP-level failures into evaluation-unavailable errors.
func doJSON(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		if services.IsCancelled(err) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "send request", "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "read response", "", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "send request",
			fmt.Sprintf("backend returned %s: %s", resp.Status, truncate(string(raw), 200)), nil)
	}
	return raw, nil
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
