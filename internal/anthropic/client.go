// Package anthropic provides a minimal client for the Anthropic Messages API
// with structured tool use. One request/response per Chat call; no streaming,
// no retries.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/verdant-labs/sprout/internal/errors"
)

const (
	// defaultBaseURL is the Anthropic Messages API endpoint.
	defaultBaseURL = "https://api.anthropic.com/v1/messages"

	// defaultModel is used when no model is configured.
	defaultModel = "claude-sonnet-4-20250514"

	// defaultMaxTokens caps the response size per call.
	defaultMaxTokens = 8192

	// apiVersion is the anthropic-version header value.
	apiVersion = "2023-06-01"
)

// Message is one turn of conversation history.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Tool describes a structured tool offered to the model.
type Tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolUse is one structured tool invocation returned by the model.
type ToolUse struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Input json.RawMessage `json:"input"`
}

// ChatRequest carries everything for one Messages API call.
type ChatRequest struct {
	System   string
	Messages []Message
	Tools    []Tool
}

// ChatResponse is the decoded result of one Messages API call.
type ChatResponse struct {
	Text       string
	ToolUses   []ToolUse
	StopReason string
}

// Client sends a system prompt, message history, and tool definitions to a
// hosted model and returns text plus zero or more tool invocations.
// Implementations must be safe for sequential reuse.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// HTTPClient implements Client against the Anthropic Messages API.
type HTTPClient struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithModel sets the model used for all calls.
func WithModel(model string) Option {
	return func(c *HTTPClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithMaxTokens sets the per-call response token cap.
func WithMaxTokens(maxTokens int) Option {
	return func(c *HTTPClient) {
		if maxTokens > 0 {
			c.maxTokens = maxTokens
		}
	}
}

// WithTimeout sets the HTTP client timeout. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *HTTPClient) {
		c.httpClient.Timeout = timeout
	}
}

// WithBaseURL overrides the API endpoint. Used in tests.
func WithBaseURL(url string) Option {
	return func(c *HTTPClient) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// NewClient creates an HTTPClient with the given API key.
// Returns ErrAPIKeyMissing when the key is empty.
func NewClient(apiKey string, opts ...Option) (*HTTPClient, error) {
	if apiKey == "" {
		return nil, errors.ErrAPIKeyMissing
	}

	c := &HTTPClient{
		apiKey:     apiKey,
		model:      defaultModel,
		maxTokens:  defaultMaxTokens,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// messagesRequest is the Messages API request structure.
type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []Message `json:"messages"`
	Tools     []Tool    `json:"tools,omitempty"`
}

// messagesResponse is the Messages API response structure.
type messagesResponse struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Error      *apiError      `json:"error,omitempty"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type apiError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Chat performs one Messages API call.
func (c *HTTPClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	reqBody := messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    req.System,
		Messages:  req.Messages,
		Tools:     req.Tools,
	}

	reqBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(reqBytes))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var respData messagesResponse
		if err := json.Unmarshal(body, &respData); err == nil && respData.Error != nil {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, respData.Error.Message)
		}
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var respData messagesResponse
	if err := json.Unmarshal(body, &respData); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if respData.Error != nil {
		return nil, fmt.Errorf("API error: %s", respData.Error.Message)
	}

	out := &ChatResponse{StopReason: respData.StopReason}
	var texts []string
	for _, block := range respData.Content {
		switch block.Type {
		case "text":
			texts = append(texts, block.Text)
		case "tool_use":
			out.ToolUses = append(out.ToolUses, ToolUse{
				ID:    block.ID,
				Name:  block.Name,
				Input: block.Input,
			})
		}
	}
	out.Text = strings.TrimSpace(strings.Join(texts, "\n"))

	return out, nil
}
