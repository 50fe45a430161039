package tui

import (
	"context"
	"fmt"
	"strings"

	"plancal/internal/plan"
	"plancal/internal/planner"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1).
			Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	docStyle     = lipgloss.NewStyle().Padding(1, 2)
)

// Runner produces a plan for one request. *planner.Planner satisfies it.
type Runner interface {
	Run(ctx context.Context, request string) (*planner.Result, error)
}

type state int

const (
	stateInput state = iota
	stateRunning
	stateResult
)

type planDoneMsg struct {
	res *planner.Result
	err error
}

type Model struct {
	ctx    context.Context
	runner Runner

	state   state
	input   textinput.Model
	spinner spinner.Model

	result *planner.Result
	errMsg string
}

func New(ctx context.Context, r Runner) Model {
	ti := textinput.New()
	ti.Placeholder = plan.Placeholder
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{ctx: ctx, runner: r, input: ti, spinner: sp}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.state == stateResult {
				return m.reset(), textinput.Blink
			}
			return m, nil
		case "enter":
			if m.state == stateInput {
				return m.submit()
			}
			return m, nil
		}

	case planDoneMsg:
		m.state = stateResult
		m.result = msg.res
		m.errMsg = planner.Message(msg.err)
		return m, nil

	case spinner.TickMsg:
		if m.state != stateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.state != stateInput {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	request := m.input.Value()
	if strings.TrimSpace(request) == "" {
		m.errMsg = planner.MsgEmptyRequest
		return m, nil
	}
	m.errMsg = ""
	m.state = stateRunning
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, m.runCmd(request))
}

func (m Model) runCmd(request string) tea.Cmd {
	return func() tea.Msg {
		res, err := m.runner.Run(m.ctx, request)
		return planDoneMsg{res: res, err: err}
	}
}

func (m Model) reset() Model {
	m.state = stateInput
	m.result = nil
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Focus()
	return m
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(planner.MsgTitle))
	b.WriteString("\n\n")
	b.WriteString(planner.MsgInputLabel + "\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.state {
	case stateRunning:
		b.WriteString(m.spinner.View() + " " + planner.MsgSubmit + "…\n")
	case stateResult:
		b.WriteString(m.resultView())
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	}

	help := "enter: " + planner.MsgSubmit + " • ctrl+c: quit"
	if m.state == stateResult {
		help = "esc: back • ctrl+c: quit"
	}
	b.WriteString("\n" + helpStyle.Render(help))
	return docStyle.Render(b.String())
}

func (m Model) resultView() string {
	if m.result == nil {
		return ""
	}

	var b strings.Builder
	if m.errMsg == "" {
		b.WriteString(successStyle.Render(planner.MsgSuccess) + "\n")
	}
	if m.result.Plan != "" {
		b.WriteString(m.result.Plan + "\n\n")
	}

	if len(m.result.Events) > 0 {
		b.WriteString(eventTable(m.result.Events) + "\n")
	}
	if len(m.result.Anomalies) > 0 {
		b.WriteString(noticeStyle.Render(planner.MsgAnomaly) + "\n")
		for _, a := range m.result.Anomalies {
			b.WriteString(noticeStyle.Render(fmt.Sprintf("  - %s（%s - %s）", a.Event.Title, a.Event.Start, a.Event.End)) + "\n")
		}
	}
	return b.String()
}

func eventTable(events []plan.Event) string {
	titleWidth := lipgloss.Width("title")
	for _, e := range events {
		if w := lipgloss.Width(e.Title); w > titleWidth {
			titleWidth = w
		}
	}
	col := lipgloss.NewStyle().Width(titleWidth + 2)
	when := lipgloss.NewStyle().Width(len(plan.DateTimeLayout) + 2)

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top,
		headerStyle.Inherit(col).Render("title"),
		headerStyle.Inherit(when).Render("start"),
		headerStyle.Render("end"),
	)}
	for _, e := range events {
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top,
			col.Render(e.Title),
			when.Render(e.Start),
			e.End,
		))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// Run starts the terminal form and blocks until the user quits or ctx ends.
func Run(ctx context.Context, r Runner) error {
	p := tea.NewProgram(New(ctx, r), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
