package chat

import (
	"context"

	"plancal/internal/middleware"
)

// Adapter abstracts chat completion providers.
type Adapter interface {
	// Reply sends history to the model and returns the first choice's text.
	// params may be nil.
	Reply(ctx context.Context, history []Message, params *middleware.LLMParams) (string, error)
}
