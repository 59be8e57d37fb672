// Package llm is a thin client for the Anthropic Messages API. The credential
// stays server-side; the browser never talks to the provider directly.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	messagesPath     = "/v1/messages"
	anthropicVersion = "2023-06-01"
)

type Client struct {
	BaseURL   string
	APIKey    string
	Model     string
	MaxTokens int
	HTTP      *http.Client
}

func New(baseURL, apiKey, model string, maxTokens int) *Client {
	if baseURL == "" {
		baseURL = "https://api.anthropic.com"
	}
	return &Client{
		BaseURL:   baseURL,
		APIKey:    apiKey,
		Model:     model,
		MaxTokens: maxTokens,
		HTTP:      &http.Client{Timeout: 60 * time.Second},
	}
}

// ContentBlock is one typed item of a message. Text blocks carry Text;
// image blocks carry Source.
type ContentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *ImageSource `json:"source,omitempty"`
}

type ImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

func TextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

func ImageBlock(mediaType, base64Data string) ContentBlock {
	return ContentBlock{
		Type: "image",
		Source: &ImageSource{
			Type:      "base64",
			MediaType: mediaType,
			Data:      base64Data,
		},
	}
}

type message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

type completionRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
}

type CompletionResponse struct {
	Content []ContentBlock `json:"content"`
	Error   *APIError      `json:"error,omitempty"`
}

type APIError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RequestError is a network or HTTP-level failure reaching the provider,
// as opposed to a response whose content cannot be used.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("claude request: %v", e.Err)
	}
	return fmt.Sprintf("claude request: %s (status %d)", e.Message, e.StatusCode)
}

func (e *RequestError) Unwrap() error { return e.Err }

// Complete sends a single synchronous completion request carrying the system
// instruction and one user message. Not streamed, never retried here.
func (c *Client) Complete(ctx context.Context, system string, content []ContentBlock) (*CompletionResponse, error) {
	body := completionRequest{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: content}},
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("claude marshal: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+messagesPath, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("claude request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.APIKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	defer resp.Body.Close()

	var out CompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: "undecodable response body", Err: err}
	}

	if resp.StatusCode >= 400 || out.Error != nil {
		msg := resp.Status
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return nil, &RequestError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &out, nil
}

// JoinText concatenates the text-typed blocks of a response, in order.
func (r *CompletionResponse) JoinText() string {
	var buf bytes.Buffer
	for _, block := range r.Content {
		if block.Type == "text" {
			buf.WriteString(block.Text)
		}
	}
	return buf.String()
}
