// Package chattest provides a scripted chat.Adapter for tests.
package chattest

import (
	"context"
	"sync"

	"plancal/internal/chat"
	"plancal/internal/middleware"
)

// Adapter replies with Text (or fails with Err) and records every call.
type Adapter struct {
	Text string
	Err  error

	mu      sync.Mutex
	prompts []string
}

func (a *Adapter) Reply(_ context.Context, history []chat.Message, _ *middleware.LLMParams) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(history) > 0 {
		a.prompts = append(a.prompts, history[len(history)-1].Content)
	}
	return a.Text, a.Err
}

// Calls is the number of Reply invocations so far.
func (a *Adapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.prompts)
}

// LastPrompt returns the content of the most recent user message.
func (a *Adapter) LastPrompt() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.prompts) == 0 {
		return ""
	}
	return a.prompts[len(a.prompts)-1]
}
