package calendar

import (
	"fmt"
	"time"

	"plancal/internal/plan"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const (
	ProductID = "-//plancal//EN"

	icsLocalLayout = "20060102T150405"
)

// ICSOptions tune the exported calendar.
type ICSOptions struct {
	// Name is shown by clients as the calendar title.
	Name string
	// Location pins event times to a zone; nil writes floating local times.
	Location *time.Location
	// Now stamps DTSTAMP; zero means time.Now().
	Now time.Time
}

// ICS renders events as an iCalendar document with one VEVENT per event.
// Events whose end is not after their start are written without DTEND.
// UIDs are derived from the event content, so exporting the same plan twice
// yields the same UIDs.
func ICS(events []plan.Event, opts ICSOptions) (string, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ProductID)
	if opts.Name != "" {
		cal.SetXWRCalName(opts.Name)
	}

	for i, ev := range events {
		start, err := time.ParseInLocation(plan.DateTimeLayout, ev.Start, locOrUTC(opts.Location))
		if err != nil {
			return "", fmt.Errorf("event %d start: %w", i, err)
		}
		end, err := time.ParseInLocation(plan.DateTimeLayout, ev.End, locOrUTC(opts.Location))
		if err != nil {
			return "", fmt.Errorf("event %d end: %w", i, err)
		}

		ve := cal.AddEvent(eventUID(i, ev))
		ve.SetDtStampTime(now)
		ve.SetSummary(ev.Title)
		// DTEND must follow DTSTART. Without it the event lasts zero time,
		// which keeps the file valid while leaving the times as parsed.
		withEnd := end.After(start)
		if opts.Location != nil {
			ve.SetStartAt(start)
			if withEnd {
				ve.SetEndAt(end)
			}
		} else {
			ve.SetProperty(ics.ComponentPropertyDtStart, start.Format(icsLocalLayout))
			if withEnd {
				ve.SetProperty(ics.ComponentPropertyDtEnd, end.Format(icsLocalLayout))
			}
		}
	}
	return cal.Serialize(), nil
}

func eventUID(i int, ev plan.Event) string {
	key := fmt.Sprintf("%d|%s|%s|%s", i, ev.Title, ev.Start, ev.End)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(key)).String() + "@plancal"
}

func locOrUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
