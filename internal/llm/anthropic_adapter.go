package llm

import (
	"plancal/internal/chat"

	"github.com/tmc/langchaingo/llms/anthropic"
)

func NewAnthropicAdapter(o Options) (chat.Adapter, error) {
	opts := []anthropic.Option{
		anthropic.WithModel(o.Model),
		anthropic.WithToken(o.APIKey),
	}
	if o.BaseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(o.BaseURL))
	}

	client, err := anthropic.New(opts...)
	if err != nil {
		return nil, err
	}
	return &langchainAdapter{client: client, model: o.Model}, nil
}
