// Package openrouter implements the generation backend port against the
// OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/flowsmith/flowsmith/pkg/ports"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "anthropic/claude-3.5-sonnet"
)

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls OpenRouter and satisfies ports.Generator.
type Client struct {
	key     string
	baseURL string
	model   string
	http    *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, e.g. for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithModel selects the model used for both generation and summaries.
func WithModel(m string) Option {
	return func(c *Client) {
		c.model = m
	}
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client with the given API key.
func New(key string, opts ...Option) *Client {
	c := &Client{
		key:     key,
		baseURL: defaultBaseURL,
		model:   defaultModel,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GenerateWorkflow asks the model for a full workflow document in JSON.
// The response is stripped of any code fences and sanity-checked to be a
// JSON object before it is handed back; anything else is a generation
// failure.
func (c *Client) GenerateWorkflow(ctx context.Context, req ports.GenerateRequest) ([]byte, error) {
	system := req.SchemaDescription +
		"\n\nReturn ONLY the complete updated workflow as a single JSON object. No explanations, no comments."
	user := fmt.Sprintf("Current workflow:\n%s\n\nInstruction: %s", req.CurrentDocument, req.Instruction)

	out, err := c.chat(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrGenerationFailure, err)
	}

	_, out = extractCodeBlock(out)
	out = strings.TrimSpace(out)
	if !gjson.Valid(out) || !gjson.Parse(out).IsObject() {
		return nil, fmt.Errorf("%w: backend did not return a JSON object", ports.ErrGenerationFailure)
	}
	return []byte(out), nil
}

// Summarize asks the model for a short conversational response about the
// document. Used for describe turns and commit messages.
func (c *Client) Summarize(ctx context.Context, req ports.SummarizeRequest) (string, error) {
	system := "You are a workflow assistant. Answer in one or two short sentences of plain " +
		"markdown about the user's workflow. Never output JSON."
	user := fmt.Sprintf("Workflow:\n%s\n\nUser said: %s", req.Document, req.Instruction)

	out, err := c.chat(ctx, system, user)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

func (c *Client) chat(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("HTTP-Referer", "https://github.com/flowsmith/flowsmith")
	req.Header.Set("X-Title", "Flowsmith")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncateBody(data))
	}

	var cr chatResponse
	if err := json.Unmarshal(data, &cr); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return cr.Choices[0].Message.Content, nil
}

var codeBlockRe = regexp.MustCompile("(?s)```(\\w+)?\\n(.*?)```")

func extractCodeBlock(input string) (lang, content string) {
	matches := codeBlockRe.FindStringSubmatch(input)
	if len(matches) > 0 {
		return strings.TrimSpace(matches[1]), strings.TrimSpace(matches[2])
	}
	return "", input
}

func truncateBody(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
