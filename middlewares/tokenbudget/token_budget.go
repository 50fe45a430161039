package tokenbudget

import (
	"context"
	"fmt"

	mw "plancal/internal/middleware"
)

func init() {
	mw.Register(BudgetLimiter{})
}

// BudgetLimiter caps MaxTokens to Event.Context["token_budget"] (int),
// keeping the smaller of the existing limit and the budget.
type BudgetLimiter struct{}

func (BudgetLimiter) ID() string    { return "token_budget" }
func (BudgetLimiter) Priority() int { return 90 }

func (BudgetLimiter) ShouldLoad(_ context.Context, e *mw.Event) bool {
	if e == nil {
		return false
	}
	budget, ok := e.Context[mw.CtxTokenBudget].(int)
	return ok && budget > 0
}

func (BudgetLimiter) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventBeforeLLMRequest {
		return mw.Decision{}, nil
	}
	budget, ok := e.Context[mw.CtxTokenBudget].(int)
	if !ok || budget <= 0 {
		return mw.Decision{}, nil
	}

	params := &mw.LLMParams{}
	if e.Params != nil {
		*params = *e.Params
	}
	if params.MaxTokens != 0 && params.MaxTokens <= budget {
		return mw.Decision{}, nil
	}

	params.MaxTokens = budget
	return mw.Decision{
		OverrideParams: params,
		Reason:         fmt.Sprintf("token_budget: capped MaxTokens to %d", budget),
	}, nil
}
