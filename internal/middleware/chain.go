package middleware

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"
)

// Chain executes middlewares in descending Priority() order.
// If priorities are equal, registration order is preserved.
type Chain struct {
	mu  sync.RWMutex
	mws []Middleware

	debugMu sync.Mutex
	debugW  io.Writer
}

type DecisionResult struct {
	MiddlewareID string
	Priority     int
	Decision     Decision
}

const skippedReason = "skipped (ShouldLoad=false)"

func NewChain(mws ...Middleware) *Chain {
	c := &Chain{}
	for _, mw := range mws {
		c.Use(mw)
	}
	return c
}

// SetDebugWriter enables JSONL debug logging for dispatch decisions.
// If w is nil, logging is disabled.
func (c *Chain) SetDebugWriter(w io.Writer) {
	c.debugMu.Lock()
	defer c.debugMu.Unlock()
	c.debugW = w
}

func (c *Chain) Use(mw Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mws = append(c.mws, mw)
	sort.SliceStable(c.mws, func(i, j int) bool {
		return c.mws[i].Priority() > c.mws[j].Priority()
	})
}

// IDs lists the middleware ids in dispatch order.
func (c *Chain) IDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.mws))
	for _, mw := range c.mws {
		out = append(out, mw.ID())
	}
	return out
}

// Dispatch runs all middlewares for the given event, stopping early if a
// middleware returns Decision.Cancel. Decisions are applied to e as they come.
func (c *Chain) Dispatch(ctx context.Context, e *Event) ([]DecisionResult, error) {
	c.mu.RLock()
	mws := make([]Middleware, len(c.mws))
	copy(mws, c.mws)
	c.mu.RUnlock()

	results := make([]DecisionResult, 0, len(mws))
	for _, mw := range mws {
		res, err := c.dispatchOne(ctx, mw, e)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
		if res.Decision.Cancel {
			break
		}
	}
	return results, nil
}

// dispatchOne runs a single middleware and records it in the debug log.
// A middleware error is logged as a cancel and returned.
func (c *Chain) dispatchOne(ctx context.Context, mw Middleware, e *Event) (DecisionResult, error) {
	rec := debugRecord{event: e, id: mw.ID(), priority: mw.Priority(), in: eventText(e), started: time.Now()}
	res := DecisionResult{MiddlewareID: rec.id, Priority: rec.priority}

	if cmw, ok := mw.(ConditionalMiddleware); ok && !cmw.ShouldLoad(ctx, e) {
		res.Decision = Decision{Reason: skippedReason}
		rec.skipped = true
		c.debugLog(rec, res.Decision)
		return res, nil
	}

	dec, err := mw.OnEvent(ctx, e)
	if err != nil {
		c.debugLog(rec, Decision{Reason: err.Error(), Cancel: true})
		return res, err
	}
	applyDecisionToEvent(e, dec)
	res.Decision = dec
	c.debugLog(rec, dec)
	return res, nil
}
