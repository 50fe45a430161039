package calendar

import (
	"bytes"
	"embed"
	"html/template"

	"plancal/internal/plan"
)

// AssetBase is where the FullCalendar bundle is loaded from.
const AssetBase = "https://cdn.jsdelivr.net/npm/fullcalendar@5.10.1"

//go:embed templates
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.tmpl"))

type fragmentData struct {
	AssetBase   string
	InitialDate string
	Events      []plan.Event
}

// HTML renders the month-view widget with events as its data source. The
// calendar opens on the first event's month and sets data-ready="true" on
// the container once rendered.
func HTML(events []plan.Event) (template.HTML, error) {
	if events == nil {
		events = []plan.Event{}
	}
	data := fragmentData{AssetBase: AssetBase, Events: events}
	if len(events) > 0 && len(events[0].Start) >= len("2006-01-02") {
		data.InitialDate = events[0].Start[:len("2006-01-02")]
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "fragment.html.tmpl", data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// Page renders a standalone document containing only the calendar.
func Page(title string, events []plan.Event) ([]byte, error) {
	frag, err := HTML(events)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = templates.ExecuteTemplate(&buf, "page.html.tmpl", struct {
		Title    string
		Calendar template.HTML
	}{title, frag})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
