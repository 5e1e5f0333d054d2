package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"talentflow_backend/pkg/apperrors"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
}

type ClientOptions struct {
	Endpoint       string
	Model          string
	APIKey         string
	TimeoutSeconds int
}

func NewClient(opts ClientOptions) *Client {
	timeout := time.Duration(opts.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: opts.Endpoint,
		model:    opts.Model,
		apiKey:   opts.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) EvaluateResume(ctx context.Context, req *EvaluationRequest) (*Evaluation, error) {
	raw, err := c.complete(ctx, buildUserPrompt(req))
	if err != nil {
		return nil, err
	}

	eval, err := ParseEvaluation(raw)
	if err != nil {
		return nil, apperrors.ErrUnprocessableResponse(err, "analysis")
	}
	return eval, nil
}

func (c *Client) complete(ctx context.Context, userPrompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature:    0.2,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", apperrors.ErrUpstreamService(err, "analysis", "classification provider unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.ErrUpstreamService(err, "analysis", "reading classification response failed")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", apperrors.ErrUpstreamService(nil, "analysis",
			fmt.Sprintf("classification provider returned status %d", resp.StatusCode)).
			WithDetails(map[string]interface{}{"body": truncate(string(respBody), 512)})
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", apperrors.ErrUnprocessableResponse(err, "analysis")
	}
	if parsed.Error != nil {
		return "", apperrors.ErrUpstreamService(nil, "analysis", "classification provider error: "+parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", apperrors.ErrUnprocessableResponse(fmt.Errorf("response contains no choices"), "analysis")
	}

	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
