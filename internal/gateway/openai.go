package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/kiyotox/starbridge/internal/config"
)

// openAIClient is the minimal subset of openai.Client used by the
// provider; it is easy to mock in tests.
type openAIClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// openAIProvider serves deployments pointed at an OpenAI-compatible
// endpoint instead of the generative-language API.
type openAIProvider struct {
	client openAIClient
	model  string
	system string
}

func newOpenAIProvider(cfg config.LLMConfig, system string) *openAIProvider {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: vendorTimeout}

	return &openAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		system: system,
	}
}

func (p *openAIProvider) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: vendor status %d", ErrUnavailable, apiErr.HTTPStatusCode)
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: no choices in completion", ErrUnexpectedShape)
	}
	return resp.Choices[0].Message.Content, nil
}
