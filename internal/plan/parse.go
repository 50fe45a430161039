package plan

import (
	"regexp"
	"strings"
)

// lineGrammar matches `<title>：<YYYY-MM-DD>，<H:MM[AP]M> - <H:MM[AP]M>` at the
// start of a line. The meridiem class is loose on purpose; ToClock24 is strict.
var lineGrammar = regexp.MustCompile(`^(.*?)：(\d{4}-\d{2}-\d{2})，(\d{1,2}:\d{2}[APM]{2}) - (\d{1,2}:\d{2}[APM]{2})`)

// ParseLine extracts an Event from a single plan line.
//
// ok is false with a nil error when the line does not follow the grammar.
// A non-nil error means the line matched but one of its times did not convert.
func ParseLine(line string) (ev Event, ok bool, err error) {
	m := lineGrammar.FindStringSubmatch(line)
	if m == nil {
		return Event{}, false, nil
	}
	title, date, from, to := m[1], m[2], m[3], m[4]

	start, err := ToClock24(from)
	if err != nil {
		return Event{}, false, err
	}
	end, err := ToClock24(to)
	if err != nil {
		return Event{}, false, err
	}

	return Event{
		Title: title,
		Start: date + "T" + start,
		End:   date + "T" + end,
	}, true, nil
}

// Parse turns a full model reply into events, in line order.
// Lines outside the grammar are skipped. The first conversion failure aborts
// the whole parse and no events are returned.
func Parse(reply string) ([]Event, error) {
	lines := strings.Split(reply, "\n")
	events := make([]Event, 0, len(lines))
	for i, line := range lines {
		ev, ok, err := ParseLine(line)
		if err != nil {
			return nil, &ParseError{Line: i + 1, Text: line, Err: err}
		}
		if !ok {
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}
