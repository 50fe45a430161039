package llm

import (
	"context"
	"fmt"

	"plancal/internal/chat"
	"plancal/internal/middleware"

	"github.com/tmc/langchaingo/llms"
)

// langchainAdapter drives any langchaingo model. Provider files only differ
// in how the client is built.
type langchainAdapter struct {
	client llms.Model
	model  string
}

func (a *langchainAdapter) Reply(ctx context.Context, history []chat.Message, params *middleware.LLMParams) (string, error) {
	resp, err := a.client.GenerateContent(ctx, convertHistory(history), callOptions(a.model, params)...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

func callOptions(model string, params *middleware.LLMParams) []llms.CallOption {
	opts := make([]llms.CallOption, 0, 6)
	opts = append(opts, llms.WithModel(model))
	if params == nil {
		return opts
	}
	if params.Model != "" {
		opts = append(opts, llms.WithModel(params.Model))
	}
	if params.Temperature != 0 {
		opts = append(opts, llms.WithTemperature(params.Temperature))
	}
	if params.TopP != 0 {
		opts = append(opts, llms.WithTopP(params.TopP))
	}
	if params.MaxTokens != 0 {
		opts = append(opts, llms.WithMaxTokens(params.MaxTokens))
	}
	if len(params.Stop) > 0 {
		opts = append(opts, llms.WithStopWords(params.Stop))
	}
	return opts
}

func convertHistory(history []chat.Message) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history))
	for _, m := range history {
		switch m.Role {
		case chat.RoleUser:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, m.Content))
		case chat.RoleAssistant:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
		case chat.RoleSystem:
			messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, m.Content))
		}
	}
	return messages
}
