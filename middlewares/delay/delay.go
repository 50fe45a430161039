package delay

import (
	"context"
	"fmt"
	"time"

	mw "plancal/internal/middleware"
)

// Default is the pause used when the event context carries no delay.
const Default = 2 * time.Second

func init() {
	mw.Register(Pause{})
}

// Pause waits a constant time before every completion request. It is not a
// backoff: the delay does not depend on earlier outcomes.
type Pause struct{}

func (Pause) ID() string    { return "delay" }
func (Pause) Priority() int { return 100 }

func (Pause) OnEvent(ctx context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventBeforeLLMRequest {
		return mw.Decision{}, nil
	}

	d := Default
	if v, ok := e.Context[mw.CtxRequestDelay].(time.Duration); ok {
		d = v
	}
	if d <= 0 {
		return mw.Decision{}, nil
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return mw.Decision{}, ctx.Err()
	case <-t.C:
	}
	return mw.Decision{Reason: fmt.Sprintf("delay: waited %s", d)}, nil
}
