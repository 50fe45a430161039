package middleware

import "context"

type EventName string

const (
	EventBeforeLLMRequest EventName = "before_llm_request"
	EventAfterLLMResponse EventName = "after_llm_response"
)

// Context keys understood by the bundled middlewares.
const (
	CtxRequestDelay = "request_delay" // time.Duration
	CtxTokenBudget  = "token_budget"  // int
	CtxRunID        = "run_id"        // string, groups the entries of one planning run
)

// LLMParams are the completion options a middleware may override.
type LLMParams struct {
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Stop        []string
}

type Decision struct {
	Cancel      bool   // stop the pipeline for this event
	Reason      string // for logs
	ReplaceText *string

	OverrideParams *LLMParams
}

type Event struct {
	Name     EventName
	UserText string     // for before_llm_request
	LLMText  string     // for after_llm_response
	Params   *LLMParams // mutable
	Context  map[string]any
}

type Middleware interface {
	ID() string
	Priority() int
	OnEvent(ctx context.Context, e *Event) (Decision, error)
}

// ConditionalMiddleware is an optional extension that allows a middleware to be
// skipped per event. Skipped middlewares are still recorded in dispatch results.
type ConditionalMiddleware interface {
	ShouldLoad(ctx context.Context, e *Event) bool
}
