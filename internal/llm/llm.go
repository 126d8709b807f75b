// Package llm adapts hosted language models to a single text-in, text-out
// completion call. Providers never retry; a failed request is returned as is.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/projectsamarth/samarth/internal/observability"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	defaultTimeout = 60 * time.Second
)

type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

type Config struct {
	Provider    string
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// Client is a Completer that records a completion metric per call.
type Client struct {
	provider string
	model    string
	next     Completer
	closer   func() error
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	switch provider {
	case ProviderOpenAI:
		completer, err := NewOpenAICompleter(cfg)
		if err != nil {
			return nil, err
		}
		return &Client{provider: provider, model: completer.model, next: completer}, nil
	case ProviderGemini:
		completer, err := NewGeminiCompleter(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &Client{provider: provider, model: completer.modelName, next: completer, closer: completer.Close}, nil
	case ProviderOllama:
		completer, err := NewOllamaCompleter(cfg)
		if err != nil {
			return nil, err
		}
		return &Client{provider: provider, model: completer.model, next: completer}, nil
	default:
		return nil, fmt.Errorf("unsupported completion provider %q", cfg.Provider)
	}
}

// Wrap instruments an arbitrary Completer under the given provider label.
func Wrap(provider string, next Completer) *Client {
	return &Client{provider: provider, next: next}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	text, err := c.next.Complete(ctx, prompt)
	observability.ObserveCompletion(c.provider, err)
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.provider, err)
	}
	return text, nil
}

func (c *Client) Provider() string { return c.provider }

func (c *Client) Model() string { return c.model }

func (c *Client) Close() error {
	if c.closer == nil {
		return nil
	}
	return c.closer()
}
