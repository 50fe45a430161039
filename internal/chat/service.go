package chat

import (
	"context"
	"errors"
	"strings"

	"plancal/internal/middleware"
)

var ErrEmptyInput = errors.New("empty input")

// Service sends one prompt per call through the middleware chain to an
// Adapter. It keeps no conversation history between calls.
type Service struct {
	adapter Adapter
	mws     *middleware.Chain
	params  middleware.LLMParams
}

type ServiceOption func(*Service)

func WithMiddlewareChain(chain *middleware.Chain) ServiceOption {
	return func(s *Service) {
		s.mws = chain
	}
}

// WithParams sets the base completion options middlewares start from.
func WithParams(p middleware.LLMParams) ServiceOption {
	return func(s *Service) {
		s.params = p
	}
}

func NewService(adapter Adapter, opts ...ServiceOption) *Service {
	s := &Service{adapter: adapter}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send issues prompt as a single user message and returns the trimmed reply.
// mwCtx is handed to every middleware as Event.Context.
func (s *Service) Send(ctx context.Context, prompt string, mwCtx map[string]any) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", ErrEmptyInput
	}

	params := s.params
	if s.mws != nil {
		e := &middleware.Event{
			Name:     middleware.EventBeforeLLMRequest,
			UserText: prompt,
			Params:   &params,
			Context:  mwCtx,
		}
		results, err := s.mws.Dispatch(ctx, e)
		if err != nil {
			return "", err
		}
		updated, canceled := applyTextDecisions(prompt, results)
		if canceled != nil {
			if updated != "" && canceled.ReplaceText != nil {
				return updated, nil
			}
			if strings.TrimSpace(canceled.Reason) == "" {
				return "", errors.New("request canceled by middleware")
			}
			return "", errors.New(canceled.Reason)
		}
		prompt = updated
		if e.Params != nil {
			params = *e.Params
		}
	}

	history := []Message{{Role: RoleUser, Content: prompt}}
	reply, err := s.adapter.Reply(ctx, history, &params)
	if err != nil {
		return "", err
	}
	// A blank reply is a valid, empty plan.
	reply = strings.TrimSpace(reply)

	if s.mws != nil {
		e := &middleware.Event{
			Name:     middleware.EventAfterLLMResponse,
			UserText: prompt,
			LLMText:  reply,
			Params:   &params,
			Context:  mwCtx,
		}
		results, err := s.mws.Dispatch(ctx, e)
		if err != nil {
			return "", err
		}
		updated, canceled := applyTextDecisions(reply, results)
		if canceled != nil && updated == "" {
			if strings.TrimSpace(canceled.Reason) == "" {
				return "", errors.New("response canceled by middleware")
			}
			return "", errors.New(canceled.Reason)
		}
		reply = updated
	}

	return reply, nil
}

func applyTextDecisions(initial string, results []middleware.DecisionResult) (string, *middleware.Decision) {
	cur := strings.TrimSpace(initial)
	for _, r := range results {
		dec := r.Decision
		if dec.ReplaceText != nil {
			cur = strings.TrimSpace(*dec.ReplaceText)
		}
		if dec.Cancel {
			return cur, &dec
		}
	}
	return cur, nil
}
