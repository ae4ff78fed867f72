package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Client for the OpenAI chat completions API
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient creates a new OpenAI client. BaseURL may point at any
// OpenAI-compatible endpoint.
func NewOpenAIClient(cfg Config) *OpenAIClient {
	cfg = cfg.withDefaults()
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(config),
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}
}

// GenerateJSON sends the prompt pair in JSON object mode
func (c *OpenAIClient) GenerateJSON(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := callContext(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.User},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &APICallError{
				Provider: ProviderOpenAI,
				Message:  fmt.Sprintf("status %d", apiErr.HTTPStatusCode),
				Cause:    err,
			}
		}
		return nil, &APICallError{Provider: ProviderOpenAI, Message: "chat completion", Cause: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &APICallError{Provider: ProviderOpenAI, Message: "no choices in response"}
	}

	model := resp.Model
	if model == "" {
		model = c.model
	}

	return &Response{
		Content: CleanJSONBlock(resp.Choices[0].Message.Content),
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
		},
		Model: model,
	}, nil
}

// Model returns the configured model name
func (c *OpenAIClient) Model() string {
	return c.model
}

// Close is a no-op; the HTTP client has nothing to release
func (c *OpenAIClient) Close() error {
	return nil
}
