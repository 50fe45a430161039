package llm

import (
	"context"
	"errors"
	"fmt"

	"plancal/internal/chat"

	"github.com/tmc/langchaingo/llms/googleai"
)

// ErrBaseURLUnsupported is returned when a base URL is set for a provider
// whose client always talks to its own endpoint.
var ErrBaseURLUnsupported = errors.New("base_url is not supported for this provider")

// NewGeminiAdapter builds a Gemini client. The googleai client has no
// endpoint override, so a configured BaseURL is rejected.
func NewGeminiAdapter(ctx context.Context, o Options) (chat.Adapter, error) {
	if o.BaseURL != "" {
		return nil, fmt.Errorf("%s: %w", ProviderGemini, ErrBaseURLUnsupported)
	}
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(o.APIKey),
		googleai.WithDefaultModel(o.Model),
	)
	if err != nil {
		return nil, err
	}
	return &langchainAdapter{client: client, model: o.Model}, nil
}
