package llm

import (
	"plancal/internal/chat"

	"github.com/tmc/langchaingo/llms/openai"
)

func NewOpenAIAdapter(o Options) (chat.Adapter, error) {
	opts := []openai.Option{
		openai.WithModel(o.Model),
		openai.WithToken(o.APIKey),
	}
	if o.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(o.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, err
	}
	return &langchainAdapter{client: client, model: o.Model}, nil
}
