package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/shared"
)

const defaultOpenAIModel = "gpt-4o-mini"

// OpenAICompleter talks to the OpenAI chat completions API or any endpoint
// that speaks the same protocol.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature float64
}

func NewOpenAICompleter(cfg Config) (*OpenAICompleter, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultOpenAIModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	if baseURL := strings.TrimSpace(cfg.BaseURL); baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")+"/"))
	}

	return &OpenAICompleter{
		client:      openai.NewClient(opts...),
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

func (c *OpenAICompleter) Complete(ctx context.Context, prompt string) (string, error) {
	res, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: param.Opt[float64]{Value: c.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(res.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return res.Choices[0].Message.Content, nil
}
