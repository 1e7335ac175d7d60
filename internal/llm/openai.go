package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient calls an OpenAI-compatible Chat Completions endpoint
// (OpenAI itself, DeepSeek, OpenRouter, and similar gateways).
type OpenAIClient struct {
	http    *http.Client
	label   string
	apiKey  string
	model   string
	baseURL string
}

// NewOpenAIClient creates a client for the OpenAI-compatible API rooted at
// baseURL (e.g. "https://api.openai.com/v1"). label names the provider in
// logs and error messages.
func NewOpenAIClient(label, apiKey, baseURL, model string) *OpenAIClient {
	return &OpenAIClient{
		http:    &http.Client{Timeout: 60 * time.Second},
		label:   label,
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (c *OpenAIClient) Name() string { return c.label + ":" + c.model }
func (c *OpenAIClient) Close() error { return nil }

type chatReq struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
}
type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
type chatResp struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate submits the prompt as a single user message.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := chatReq{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		const max = 2048
		if len(body) > max {
			body = body[:max]
		}
		err := fmt.Errorf("%s: unexpected status %s: %s", c.label, resp.Status, string(body))
		if permanentStatus(resp.StatusCode, string(body)) {
			return "", NewPermanentError(err)
		}
		return "", err
	}
	var out chatResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", ErrEmptyCompletion
	}
	return out.Choices[0].Message.Content, nil
}

// permanentStatus reports rejections that retrying cannot fix: bad
// credentials, exhausted quota, or a prompt past the context window.
func permanentStatus(code int, body string) bool {
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		return true
	case http.StatusBadRequest:
		return strings.Contains(body, "context_length_exceeded")
	case http.StatusTooManyRequests:
		return strings.Contains(body, "insufficient_quota")
	}
	return false
}
