package llm

import (
	"context"
	"errors"
	"fmt"

	"plancal/internal/chat"
)

type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ErrMissingAPIKey is returned when a hosted provider gets no credential.
var ErrMissingAPIKey = errors.New("api key is required")

// NeedsAPIKey reports whether the provider authenticates with an API key.
func (p Provider) NeedsAPIKey() bool {
	return p != ProviderOllama
}

// DefaultModel is the model used when none is configured.
func (p Provider) DefaultModel() string {
	switch p {
	case ProviderOllama:
		return "llama3.2"
	case ProviderAnthropic:
		return "claude-3-5-sonnet-latest"
	case ProviderGemini:
		return "gemini-2.5-flash"
	default:
		return "gpt-3.5-turbo"
	}
}

// Options configure an adapter. APIKey is passed in explicitly; adapters do
// not read credentials from the environment.
type Options struct {
	Provider Provider
	Model    string
	BaseURL  string
	APIKey   string
}

func NewAdapter(ctx context.Context, opts Options) (chat.Adapter, error) {
	if opts.Model == "" {
		opts.Model = opts.Provider.DefaultModel()
	}
	if opts.Provider.NeedsAPIKey() && opts.APIKey == "" {
		return nil, fmt.Errorf("%s: %w", opts.Provider, ErrMissingAPIKey)
	}

	switch opts.Provider {
	case ProviderOllama:
		return NewOllamaAdapter(opts)
	case ProviderOpenAI:
		return NewOpenAIAdapter(opts)
	case ProviderAnthropic:
		return NewAnthropicAdapter(opts)
	case ProviderGemini:
		return NewGeminiAdapter(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", opts.Provider)
	}
}
