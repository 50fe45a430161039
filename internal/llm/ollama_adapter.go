package llm

import (
	"plancal/internal/chat"

	"github.com/tmc/langchaingo/llms/ollama"
)

func NewOllamaAdapter(o Options) (chat.Adapter, error) {
	opts := []ollama.Option{ollama.WithModel(o.Model)}
	if o.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(o.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, err
	}
	return &langchainAdapter{client: client, model: o.Model}, nil
}
