package plan

import "time"

// Anomaly describes an event whose times look wrong. Events are never
// adjusted; anomalies are only reported.
type Anomaly struct {
	Index  int    `json:"index"`
	Event  Event  `json:"event"`
	Reason string `json:"reason"`
}

const (
	ReasonEndBeforeStart = "end is not after start"
	ReasonUnparsable     = "start or end is not a valid date-time"
)

// Check reports events whose end is not after their start. An evening event
// running past midnight shows up here because both ends share the line's date.
func Check(events []Event) []Anomaly {
	var out []Anomaly
	for i, ev := range events {
		start, err1 := time.Parse(DateTimeLayout, ev.Start)
		end, err2 := time.Parse(DateTimeLayout, ev.End)
		if err1 != nil || err2 != nil {
			out = append(out, Anomaly{Index: i, Event: ev, Reason: ReasonUnparsable})
			continue
		}
		if !end.After(start) {
			out = append(out, Anomaly{Index: i, Event: ev, Reason: ReasonEndBeforeStart})
		}
	}
	return out
}
