package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"retake/internal/services"
)

type geminiClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func newGeminiClient(cfg Config, httpClient *http.Client) *geminiClient {
	return &geminiClient{
		baseURL:    NormalizeBaseURL("gemini", cfg.BaseURL),
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: httpClient,
	}
}

func (c *geminiClient) Dialect() string { return "gemini" }

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  struct {
		Temperature float64 `json:"temperature"`
	} `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *geminiClient) Evaluate(ctx context.Context, req Request) (*Response, error) {
	payload := geminiRequest{
		Contents: []geminiContent{{
			Role:  "user",
			Parts: []geminiPart{{Text: req.UserPrompt}},
		}},
	}
	if req.SystemPrompt != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "encode request", "", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "build request", "", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	raw, err := doJSON(c.httpClient, httpReq)
	if err != nil {
		return nil, err
	}

	var decoded geminiResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "decode response", "", err)
	}
	if decoded.Error != nil {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "evaluate", decoded.Error.Message, nil)
	}
	if len(decoded.Candidates) == 0 {
		return nil, services.Wrap(services.ErrEvaluationUnavailable, "ai", "evaluate", "response carried no candidates", nil)
	}

	var parts []string
	for _, part := range decoded.Candidates[0].Content.Parts {
		if part.Text != "" {
			parts = append(parts, part.Text)
		}
	}
	return &Response{Content: strings.Join(parts, ""), RawBody: raw}, nil
}

func (c *geminiClient) TestConnection(ctx context.Context) Health {
	return probe(ctx, c)
}
