package planner

import (
	"errors"
	"fmt"

	"plancal/internal/config"
	"plancal/internal/llm"
)

// Step names one stage of a planning run.
type Step string

const (
	StepValidate Step = "validate"
	StepRequest  Step = "request"
	StepParse    Step = "parse"
)

var ErrEmptyRequest = errors.New("empty request")

// StepError records which stage of a run failed.
type StepError struct {
	Step Step
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// FailedStep returns the stage err came from, or "" if it has none.
func FailedStep(err error) Step {
	var se *StepError
	if errors.As(err, &se) {
		return se.Step
	}
	return ""
}

// Message collapses any planning error into the one line shown to the user.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyRequest) {
		return MsgEmptyRequest
	}
	if errors.Is(err, config.ErrMissingCredential) || errors.Is(err, llm.ErrMissingAPIKey) {
		return MsgMissingCredential
	}
	var se *StepError
	if errors.As(err, &se) {
		err = se.Err
	}
	return MsgErrorPrefix + err.Error()
}
