package emergency

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig configures the chat-completions backed generator. Any
// OpenAI-compatible endpoint works, including Gemini's compatibility layer.
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// openaiGenerator implements Generator using the go-openai client
type openaiGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// NewOpenAIFactory returns a GeneratorFactory for the given config. The factory
// fails with ErrNoCredential when no API key is set.
func NewOpenAIFactory(cfg OpenAIConfig) GeneratorFactory {
	return func() (Generator, error) {
		gen, err := newOpenAIGenerator(cfg)
		if err != nil {
			return nil, err
		}
		return gen, nil
	}
}

func newOpenAIGenerator(cfg OpenAIConfig) (*openaiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoCredential
	}
	if cfg.Model == "" {
		return nil, errors.New("generator model is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid generator base URL %q", cfg.BaseURL)
		}
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &openaiGenerator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Generate sends the prompt as a single user message and returns the first choice
func (g *openaiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.3,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := resp.Choices[0].Message.Content
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
