package plan

import "fmt"

// ClockError reports a time string that is not strict H:MM[AM|PM].
type ClockError struct {
	Value  string
	Reason string
}

func (e *ClockError) Error() string {
	return fmt.Sprintf("invalid clock time %q: %s", e.Value, e.Reason)
}

// ParseError wraps the first failure that aborted a Parse call.
// Line is 1-based.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
