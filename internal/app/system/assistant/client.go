// Package assistant talks to the chat model behind the adherent assistant.
// Two wire formats are supported: OpenRouter's OpenAI-compatible chat
// completions and Ollama's native /api/chat.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Providers.
const (
	ProviderOpenRouter = "openrouter"
	ProviderOllama     = "ollama"
	ProviderOff        = "off"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("assistant is disabled")

// ErrEmptyReply is returned when the provider answered without content.
var ErrEmptyReply = errors.New("assistant returned no content")

// Role values of ChatMessage.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn sent to the model.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Completer produces the next assistant turn for a conversation.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Config selects and parameterizes the provider.
type Config struct {
	Provider string
	BaseURL  string
	APIKey   string
	Model    string
	Timeout  time.Duration
	Referer  string // sent to OpenRouter as HTTP-Referer
}

// Client is a Completer over HTTP.
type Client struct {
	provider string
	baseURL  string
	apiKey   string
	model    string
	referer  string
	http     *resty.Client
}

// New validates cfg and builds a Client. Provider "off" (or empty) returns
// ErrDisabled so callers can wire a nil Completer.
func New(cfg Config) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	switch provider {
	case "", ProviderOff:
		return nil, ErrDisabled
	case ProviderOpenRouter:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("assistant: openrouter needs an API key")
		}
	case ProviderOllama:
	default:
		return nil, fmt.Errorf("assistant: unsupported provider %q", cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("assistant: model is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		provider: provider,
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		model:    cfg.Model,
		referer:  cfg.Referer,
		http:     resty.New().SetTimeout(timeout),
	}, nil
}

// Provider returns the configured provider name.
func (c *Client) Provider() string { return c.provider }

// Complete sends messages and returns the reply text.
func (c *Client) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	var (
		out string
		err error
	)
	switch c.provider {
	case ProviderOpenRouter:
		out, err = c.completeOpenRouter(ctx, messages)
	default:
		out, err = c.completeOllama(ctx, messages)
	}
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}

func (c *Client) completeOpenRouter(ctx context.Context, messages []ChatMessage) (string, error) {
	base := c.baseURL
	if base == "" {
		base = "https://openrouter.ai"
	}
	body := map[string]any{
		"model":    c.model,
		"messages": messages,
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	req := c.http.R().SetContext(ctx).
		SetHeader("Authorization", "Bearer "+c.apiKey).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "incubahub").
		SetBody(body).
		SetResult(&resp)
	if c.referer != "" {
		req.SetHeader("HTTP-Referer", c.referer)
	}
	rr, err := req.Post(openRouterURL(base, "/chat/completions"))
	if err != nil {
		return "", fmt.Errorf("openrouter chat: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("openrouter chat: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyReply
	}
	return resp.Choices[0].Message.Content, nil
}

func (c *Client) completeOllama(ctx context.Context, messages []ChatMessage) (string, error) {
	base := c.baseURL
	if base == "" {
		base = "http://localhost:11434"
	}
	body := map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   false,
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	rr, err := c.http.R().SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&resp).
		Post(strings.TrimRight(base, "/") + "/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	if rr.IsError() {
		return "", fmt.Errorf("ollama chat: %s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	return resp.Message.Content, nil
}

// openRouterURL appends tail to base, adding /api/v1 unless base already
// carries it.
func openRouterURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if i := strings.Index(b, "/api/v1"); i >= 0 {
		return b[:i+len("/api/v1")] + tail
	}
	return b + "/api/v1" + tail
}

func abbreviate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
