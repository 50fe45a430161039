package plan

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseLineMatches(t *testing.T) {
	ev, ok, err := ParseLine("數學 - 代數：2025-01-15，9:00AM - 12:00PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected line to match")
	}
	want := Event{Title: "數學 - 代數", Start: "2025-01-15T09:00", End: "2025-01-15T12:00"}
	if ev != want {
		t.Fatalf("expected %+v, got %+v", want, ev)
	}
}

func TestParseLineNoMatch(t *testing.T) {
	for _, line := range []string{
		"",
		"以下是你的計劃：",
		"數學:2025-01-15,9:00AM - 12:00PM",
		"數學：2025/01/15，9:00AM - 12:00PM",
		"數學：2025-01-15，9:00AM-12:00PM",
		"數學：2025-01-15，9:00 AM - 12:00 PM",
	} {
		_, ok, err := ParseLine(line)
		if err != nil {
			t.Fatalf("ParseLine(%q): unexpected error: %v", line, err)
		}
		if ok {
			t.Fatalf("ParseLine(%q): expected no match", line)
		}
	}
}

func TestParseLineKeepsTrailingText(t *testing.T) {
	ev, ok, err := ParseLine("休閒活動：2025-01-16，3:00PM - 4:00PM（散步）")
	if err != nil || !ok {
		t.Fatalf("expected match, got ok=%v err=%v", ok, err)
	}
	if ev.End != "2025-01-16T16:00" {
		t.Fatalf("expected end 2025-01-16T16:00, got %s", ev.End)
	}
}

func TestParseEndToEnd(t *testing.T) {
	reply := "數學 - 代數：2025-01-15，9:00AM - 12:00PM\n休閒活動：2025-01-16，3:00PM - 4:00PM"
	events, err := Parse(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []Event{
		{Title: "數學 - 代數", Start: "2025-01-15T09:00", End: "2025-01-15T12:00"},
		{Title: "休閒活動", Start: "2025-01-16T15:00", End: "2025-01-16T16:00"},
	}
	if !reflect.DeepEqual(events, want) {
		t.Fatalf("expected %+v, got %+v", want, events)
	}
}

func TestParseSkipsNonMatchingLinesInOrder(t *testing.T) {
	reply := strings.Join([]string{
		"好的，以下是你的計劃：",
		"",
		"B：2025-02-02，1:00PM - 2:00PM",
		"這一行不是活動",
		"A：2025-02-01，9:00AM - 10:30AM",
		"B：2025-02-02，1:00PM - 2:00PM",
	}, "\n")
	events, err := Parse(reply)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	titles := []string{events[0].Title, events[1].Title, events[2].Title}
	if !reflect.DeepEqual(titles, []string{"B", "A", "B"}) {
		t.Fatalf("expected source order with duplicates, got %v", titles)
	}
}

func TestParseNoMatchesYieldsEmpty(t *testing.T) {
	events, err := Parse("抱歉，我無法完成這個請求。\n請再試一次。")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", events)
	}
}

func TestParseAbortsOnBadClock(t *testing.T) {
	reply := "A：2025-02-01，9:00AM - 10:00AM\nB：2025-02-01，13:00PM - 2:00PM\nC：2025-02-01，3:00PM - 4:00PM"
	events, err := Parse(reply)
	if err == nil {
		t.Fatalf("expected error")
	}
	if events != nil {
		t.Fatalf("expected no partial events, got %v", events)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if pe.Line != 2 {
		t.Fatalf("expected failure on line 2, got %d", pe.Line)
	}
	var ce *ClockError
	if !errors.As(err, &ce) || ce.Value != "13:00PM" {
		t.Fatalf("expected wrapped clock error for 13:00PM, got %v", err)
	}
}

func TestParseAbortsOnBadMeridiem(t *testing.T) {
	_, err := Parse("A：2025-02-01，9:00MM - 10:00AM")
	if err == nil {
		t.Fatalf("expected error for malformed meridiem")
	}
}

func TestExampleLinesParse(t *testing.T) {
	lines := ExampleLines()
	if len(lines) != 4 {
		t.Fatalf("expected 4 example lines, got %d", len(lines))
	}
	events, err := Parse(strings.Join(lines, "\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events) != len(lines) {
		t.Fatalf("expected every example line to parse, got %d events", len(events))
	}
	if events[1].Start != "2025-01-15T13:00" || events[1].End != "2025-01-15T15:00" {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
}

func TestPromptCarriesRequestAndExamples(t *testing.T) {
	p := Prompt("幫我規劃三天")
	if !strings.HasPrefix(p, "幫我規劃三天\n"+formatInstruction) {
		t.Fatalf("expected request followed by instruction, got %q", p)
	}
	for _, l := range exampleLines {
		if !strings.Contains(p, l) {
			t.Fatalf("expected prompt to contain %q", l)
		}
	}
}
