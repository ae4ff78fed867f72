// Package llm provides the content-generation API clients used to produce structured resumes.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the OpenAI chat completions API
	ProviderOpenAI Provider = "openai"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// Config holds the client configuration
type Config struct {
	Provider Provider
	Model    string
	APIKey   string
	BaseURL  string
	Timeout  time.Duration // per-call deadline; zero leaves calls bounded only by the run context
}

// DefaultConfig returns the default configuration (OpenAI, gpt-5-nano)
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Model:    DefaultModel(ProviderOpenAI),
	}
}

// DefaultModel returns the model used for a provider when none is configured
func DefaultModel(p Provider) string {
	switch p {
	case ProviderGemini:
		return "gemini-2.5-flash-lite"
	default:
		return "gpt-5-nano"
	}
}

// APIKeyEnv returns the environment variable holding the provider's credential
func APIKeyEnv(p Provider) string {
	switch p {
	case ProviderGemini:
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// ParseProvider validates a provider name
func ParseProvider(name string) (Provider, error) {
	switch Provider(name) {
	case ProviderOpenAI, ProviderGemini:
		return Provider(name), nil
	case "":
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unsupported provider %q (want openai or gemini)", name)
	}
}

// ResolveAPIKey fills APIKey from the provider's environment variable when unset
func (c *Config) ResolveAPIKey() {
	if c.APIKey == "" {
		c.APIKey = os.Getenv(APIKeyEnv(c.Provider))
	}
}

// withDefaults returns a copy with empty fields filled in
func (c *Config) withDefaults() Config {
	out := *c
	if out.Provider == "" {
		out.Provider = ProviderOpenAI
	}
	if out.Model == "" {
		out.Model = DefaultModel(out.Provider)
	}
	return out
}

// callContext applies the per-call deadline when one is configured.
func callContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
