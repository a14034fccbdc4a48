package generator

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAI asks an OpenAI-compatible chat completion endpoint. BaseURL lets
// it talk to local servers such as Ollama or llama.cpp.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI builds the client. The API key is required unless a custom
// BaseURL is given, since local servers usually ignore it.
func NewOpenAI(apiKey, model, baseURL string) (*OpenAI, error) {
	if model == "" {
		return nil, fmt.Errorf("openai backend requires a model")
	}
	if apiKey == "" && baseURL == "" {
		return nil, fmt.Errorf("openai backend requires an API key")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	return &OpenAI{client: openai.NewClientWithConfig(cfg), model: model}, nil
}

// Name returns the model name.
func (g *OpenAI) Name() string {
	return g.model
}

// Generate sends the prompt as a single user message.
func (g *OpenAI) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s request failed: %w", g.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", g.model, ErrEmptyOutput)
	}
	return resp.Choices[0].Message.Content, nil
}
