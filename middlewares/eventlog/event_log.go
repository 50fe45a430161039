package eventlog

import (
	"context"
	"fmt"

	appLog "plancal/internal/log"
	mw "plancal/internal/middleware"
	"plancal/internal/plan"
)

func init() {
	mw.Register(EventLog{})
}

// EventLog writes every event found in a reply to the debug log. It never
// alters the reply or fails the request; parse errors surface later.
type EventLog struct{}

func (EventLog) ID() string    { return "event_log" }
func (EventLog) Priority() int { return 10 }

func (EventLog) OnEvent(_ context.Context, e *mw.Event) (mw.Decision, error) {
	if e == nil || e.Name != mw.EventAfterLLMResponse {
		return mw.Decision{}, nil
	}
	events, err := plan.Parse(e.LLMText)
	if err != nil {
		return mw.Decision{Reason: "event_log: " + err.Error()}, nil
	}
	for _, ev := range events {
		appLog.Debug("parsed event", "title", ev.Title, "start", ev.Start, "end", ev.End)
	}
	return mw.Decision{Reason: fmt.Sprintf("event_log: %d events", len(events))}, nil
}
