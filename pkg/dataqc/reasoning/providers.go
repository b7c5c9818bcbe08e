package reasoning

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Supported providers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "googleai"
	ProviderOllama    = "ollama"
	ProviderMock      = "mock"
)

// ProviderConfig selects and configures the model backend.
type ProviderConfig struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}

// NewModel creates an LLM instance based on the provider configuration.
func NewModel(ctx context.Context, p ProviderConfig) (llms.Model, error) {
	switch strings.ToLower(p.Provider) {
	case ProviderOpenAI, "":
		return createOpenAI(p)
	case ProviderAnthropic:
		return createAnthropic(p)
	case ProviderGoogle:
		return createGoogle(ctx, p)
	case ProviderOllama:
		return createOllama(p)
	case ProviderMock:
		return NewMockModel(nil), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", p.Provider)
	}
}

func createOpenAI(p ProviderConfig) (llms.Model, error) {
	opts := []openai.Option{
		openai.WithModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, openai.WithToken(p.APIKey))
	}
	if p.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(p.BaseURL))
	}
	return openai.New(opts...)
}

func createAnthropic(p ProviderConfig) (llms.Model, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, anthropic.WithToken(p.APIKey))
	}
	if p.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(p.BaseURL))
	}
	return anthropic.New(opts...)
}

func createGoogle(ctx context.Context, p ProviderConfig) (llms.Model, error) {
	opts := []googleai.Option{
		googleai.WithDefaultModel(p.Model),
	}
	if p.APIKey != "" {
		opts = append(opts, googleai.WithAPIKey(p.APIKey))
	}
	if p.BaseURL != "" {
		return nil, fmt.Errorf("googleai does not support custom base URL")
	}
	return googleai.New(ctx, opts...)
}

func createOllama(p ProviderConfig) (llms.Model, error) {
	opts := []ollama.Option{
		ollama.WithModel(p.Model),
	}
	if p.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(p.BaseURL))
	}
	return ollama.New(opts...)
}
