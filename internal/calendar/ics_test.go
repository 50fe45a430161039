package calendar

import (
	"strings"
	"testing"
	"time"

	"plancal/internal/plan"

	ics "github.com/arran4/golang-ical"
)

func TestICSOneEventPerPlanEvent(t *testing.T) {
	out, err := ICS(sample, ICSOptions{Name: "AI 行程助理", Now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cal, err := ics.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v\n%s", err, out)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 VEVENTs, got %d", len(events))
	}
	if got := events[0].GetProperty(ics.ComponentPropertySummary).Value; got != "數學 - 代數" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := events[1].GetProperty(ics.ComponentPropertyDtStart).Value; got != "20250116T150000" {
		t.Fatalf("expected floating start, got %q", got)
	}
	if !strings.Contains(out, "PRODID:"+ProductID) {
		t.Fatalf("expected product id in output")
	}
}

func TestICSStableUIDs(t *testing.T) {
	a, _ := ICS(sample, ICSOptions{Now: time.Unix(0, 0)})
	b, _ := ICS(sample, ICSOptions{Now: time.Unix(0, 0)})
	if a != b {
		t.Fatalf("expected identical output for identical input")
	}
	if eventUID(0, sample[0]) == eventUID(1, sample[0]) {
		t.Fatalf("expected position to distinguish duplicate events")
	}
}

func TestICSWithLocationUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*60*60)
	out, err := ICS(sample[:1], ICSOptions{Location: loc, Now: time.Unix(0, 0)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "20250115T010000Z") {
		t.Fatalf("expected 09:00+08:00 written as 01:00Z:\n%s", out)
	}
}

func TestICSRejectsBadTimes(t *testing.T) {
	_, err := ICS([]plan.Event{{Title: "x", Start: "2025-13-01T09:00", End: "2025-13-01T10:00"}}, ICSOptions{})
	if err == nil {
		t.Fatalf("expected error for invalid date")
	}
}

func TestICSEndNotAfterStartOmitsDtEnd(t *testing.T) {
	events := []plan.Event{
		{Title: "夜讀", Start: "2025-01-15T23:00", End: "2025-01-15T01:00"},
		{Title: "讀書", Start: "2025-01-16T09:00", End: "2025-01-16T10:00"},
	}
	for _, loc := range []*time.Location{nil, time.UTC} {
		out, err := ICS(events, ICSOptions{Location: loc, Now: time.Unix(0, 0)})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cal, err := ics.ParseCalendar(strings.NewReader(out))
		if err != nil {
			t.Fatalf("output does not parse: %v\n%s", err, out)
		}
		got := cal.Events()
		if len(got) != 2 {
			t.Fatalf("expected both events kept, got %d", len(got))
		}
		if p := got[0].GetProperty(ics.ComponentPropertyDtEnd); p != nil {
			t.Fatalf("expected no DTEND before DTSTART, got %q", p.Value)
		}
		if got[0].GetProperty(ics.ComponentPropertyDtStart) == nil {
			t.Fatalf("expected DTSTART kept")
		}
		if got[1].GetProperty(ics.ComponentPropertyDtEnd) == nil {
			t.Fatalf("expected DTEND for a normal event")
		}
	}
}
