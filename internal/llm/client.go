package llm

import (
	"context"
	"fmt"
)

// Request is a system/user prompt pair
type Request struct {
	System string
	User   string
}

// Usage reports the tokens billed for one call
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Response is the raw structured body plus its token usage
type Response struct {
	Content string
	Usage   Usage
	Model   string
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateJSON requests a machine-parseable JSON response for the prompt pair
	GenerateJSON(ctx context.Context, req Request) (*Response, error)
	// Model returns the model name requests are sent to
	Model() string
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := config.withDefaults()

	if cfg.APIKey == "" {
		return nil, &ConfigError{Message: fmt.Sprintf("%s is not set", APIKeyEnv(cfg.Provider))}
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		return NewOpenAIClient(cfg), nil
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	default:
		return nil, &ConfigError{Message: fmt.Sprintf("unsupported provider %q", cfg.Provider)}
	}
}
