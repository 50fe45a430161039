package planner

import (
	"context"
	"strings"
	"time"

	"plancal/internal/chat"
	appLog "plancal/internal/log"
	"plancal/internal/middleware"
	"plancal/internal/plan"

	"github.com/google/uuid"
)

// Options tune a Planner. Zero values mean no delay, no timeout, no budget.
type Options struct {
	RequestDelay   time.Duration
	RequestTimeout time.Duration
	TokenBudget    int
}

// Result is everything one run produced. On a parse failure Plan is set and
// Events is empty.
type Result struct {
	Request   string         `json:"request"`
	Plan      string         `json:"plan"`
	Events    []plan.Event   `json:"events"`
	Anomalies []plan.Anomaly `json:"anomalies,omitempty"`
}

// Planner runs the validate, request, parse sequence for one request.
// It holds no per-run state and is safe for concurrent use.
type Planner struct {
	svc  *chat.Service
	opts Options
}

func New(svc *chat.Service, opts Options) *Planner {
	return &Planner{svc: svc, opts: opts}
}

// Run turns a free-text request into a plan and its events. Errors are
// *StepError values; the returned Result is never nil.
func (p *Planner) Run(ctx context.Context, request string) (*Result, error) {
	res := &Result{Request: request, Events: []plan.Event{}}

	if strings.TrimSpace(request) == "" {
		return res, &StepError{Step: StepValidate, Err: ErrEmptyRequest}
	}

	reply, err := p.complete(ctx, request)
	if err != nil {
		appLog.Error("completion failed", err)
		return res, &StepError{Step: StepRequest, Err: err}
	}
	res.Plan = reply

	events, err := plan.Parse(reply)
	if err != nil {
		appLog.Error("plan parse failed", err)
		return res, &StepError{Step: StepParse, Err: err}
	}
	res.Events = events
	res.Anomalies = plan.Check(events)

	for _, a := range res.Anomalies {
		appLog.Warn("suspicious event", "title", a.Event.Title, "start", a.Event.Start, "end", a.Event.End, "reason", a.Reason)
	}
	appLog.Info("plan generated", "events", len(events), "anomalies", len(res.Anomalies))
	return res, nil
}

func (p *Planner) complete(ctx context.Context, request string) (string, error) {
	if p.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.RequestTimeout)
		defer cancel()
	}

	mwCtx := map[string]any{
		middleware.CtxRequestDelay: p.opts.RequestDelay,
		middleware.CtxTokenBudget:  p.opts.TokenBudget,
		middleware.CtxRunID:        uuid.NewString(),
	}
	return p.svc.Send(ctx, plan.Prompt(request), mwCtx)
}
