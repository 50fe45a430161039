package tokenbudget

import (
	"context"
	"testing"

	mw "plancal/internal/middleware"
)

func TestBudgetCapsMaxTokens(t *testing.T) {
	e := &mw.Event{
		Name:    mw.EventBeforeLLMRequest,
		Params:  &mw.LLMParams{Model: "gpt-3.5-turbo", MaxTokens: 4096},
		Context: map[string]any{mw.CtxTokenBudget: 800},
	}
	dec, err := BudgetLimiter{}.OnEvent(context.Background(), e)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dec.OverrideParams == nil || dec.OverrideParams.MaxTokens != 800 {
		t.Fatalf("expected MaxTokens capped to 800, got %+v", dec.OverrideParams)
	}
	if dec.OverrideParams.Model != "gpt-3.5-turbo" {
		t.Fatalf("expected other params preserved, got %+v", dec.OverrideParams)
	}
	if e.Params.MaxTokens != 4096 {
		t.Fatalf("expected original params untouched")
	}
}

func TestBudgetKeepsSmallerLimit(t *testing.T) {
	e := &mw.Event{
		Name:    mw.EventBeforeLLMRequest,
		Params:  &mw.LLMParams{MaxTokens: 200},
		Context: map[string]any{mw.CtxTokenBudget: 800},
	}
	dec, _ := BudgetLimiter{}.OnEvent(context.Background(), e)
	if dec.OverrideParams != nil {
		t.Fatalf("expected no override when already under budget")
	}
}

func TestBudgetShouldLoad(t *testing.T) {
	b := BudgetLimiter{}
	if b.ShouldLoad(context.Background(), &mw.Event{}) {
		t.Fatalf("expected skip without a budget")
	}
	if !b.ShouldLoad(context.Background(), &mw.Event{Context: map[string]any{mw.CtxTokenBudget: 10}}) {
		t.Fatalf("expected load with a budget")
	}
}
