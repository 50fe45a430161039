package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"plancal/internal/plan"
	"plancal/internal/planner"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeRunner struct {
	res   *planner.Result
	err   error
	calls int
}

func (f *fakeRunner) Run(_ context.Context, request string) (*planner.Result, error) {
	f.calls++
	if f.res != nil {
		f.res.Request = request
	}
	return f.res, f.err
}

func press(m Model, k tea.KeyType) (Model, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(Model), cmd
}

func TestEnterWithEmptyInputDoesNotRun(t *testing.T) {
	r := &fakeRunner{}
	m := New(context.Background(), r)
	m.input.SetValue("   ")

	m, cmd := press(m, tea.KeyEnter)
	if cmd != nil {
		t.Fatalf("expected no command for empty input")
	}
	if m.state != stateInput {
		t.Fatalf("expected to stay on input, got %v", m.state)
	}
	if m.errMsg != planner.MsgEmptyRequest {
		t.Fatalf("expected validation message, got %q", m.errMsg)
	}
	if !strings.Contains(m.View(), planner.MsgEmptyRequest) {
		t.Fatalf("expected validation message in view")
	}
	if r.calls != 0 {
		t.Fatalf("expected no run, got %d", r.calls)
	}
}

func TestSubmitShowsResult(t *testing.T) {
	r := &fakeRunner{res: &planner.Result{
		Plan:   "讀書：2025-01-15，9:00AM - 10:00AM",
		Events: []plan.Event{{Title: "讀書", Start: "2025-01-15T09:00", End: "2025-01-15T10:00"}},
	}}
	m := New(context.Background(), r)
	m.input.SetValue("今天讀書")

	m, cmd := press(m, tea.KeyEnter)
	if cmd == nil || m.state != stateRunning {
		t.Fatalf("expected running state with a command, got %v", m.state)
	}

	msg := m.runCmd("今天讀書")()
	next, _ := m.Update(msg)
	m = next.(Model)
	if m.state != stateResult {
		t.Fatalf("expected result state, got %v", m.state)
	}
	view := m.View()
	for _, want := range []string{planner.MsgSuccess, "2025-01-15T09:00", "讀書"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected view to contain %q, got %s", want, view)
		}
	}

	m, _ = press(m, tea.KeyEsc)
	if m.state != stateInput || m.input.Value() != "" || m.result != nil {
		t.Fatalf("expected reset after esc, got state=%v value=%q", m.state, m.input.Value())
	}
}

func TestErrorShownAsOneLine(t *testing.T) {
	r := &fakeRunner{res: &planner.Result{}, err: &planner.StepError{Step: planner.StepRequest, Err: errors.New("timeout")}}
	m := New(context.Background(), r)

	next, _ := m.Update(m.runCmd("x")())
	m = next.(Model)
	if m.errMsg != planner.MsgErrorPrefix+"timeout" {
		t.Fatalf("unexpected error message %q", m.errMsg)
	}
	if strings.Contains(m.View(), planner.MsgSuccess) {
		t.Fatalf("expected no success line on error")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := New(context.Background(), &fakeRunner{})
	_, cmd := press(m, tea.KeyCtrlC)
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}
