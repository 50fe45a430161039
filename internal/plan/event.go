package plan

import "fmt"

// DateTimeLayout is the serialized form of Event.Start and Event.End.
const DateTimeLayout = "2006-01-02T15:04"

// Event is one activity extracted from a plan line.
type Event struct {
	Title string `json:"title"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (e Event) String() string {
	return fmt.Sprintf("%s (%s - %s)", e.Title, e.Start, e.End)
}
