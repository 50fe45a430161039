package middleware

import (
	"encoding/json"
	"math"
	"regexp"
	"time"
	"unicode/utf8"
)

type debugEntry struct {
	Timestamp    string `json:"ts"`
	RunID        string `json:"run,omitempty"`
	Event        string `json:"event"`
	MiddlewareID string `json:"middleware"`
	Priority     int    `json:"priority"`
	Skipped      bool   `json:"skipped,omitempty"`
	Reason       string `json:"reason,omitempty"`
	Cancel       bool   `json:"cancel,omitempty"`
	MaxTokens    int    `json:"max_tokens,omitempty"`

	// ElapsedMS is time spent inside the middleware; the delay shows up here.
	ElapsedMS int64 `json:"elapsed_ms"`

	InputChars   int `json:"in_chars"`
	OutputChars  int `json:"out_chars"`
	InputTokens  int `json:"in_tokens_est"`
	OutputTokens int `json:"out_tokens_est"`
}

// debugRecord is what Dispatch knows about one middleware call before its
// decision is in.
type debugRecord struct {
	event    *Event
	id       string
	priority int
	skipped  bool
	in       string
	started  time.Time
}

// tokenish matches word-like chunks, otherwise single non-space characters.
// CJK text has no spaces, so the chars/4 floor in estimateTokens dominates there.
var tokenish = regexp.MustCompile(`[\pL\pN]+(?:[._/\\-][\pL\pN]+)*|[^\s]`)

func estimateTokens(s string) int {
	if s == "" {
		return 0
	}
	chunks := len(tokenish.FindAllString(s, -1))
	charHeuristic := int(math.Ceil(float64(utf8.RuneCountInString(s)) / 4.0))
	if chunks < charHeuristic {
		return charHeuristic
	}
	return chunks
}

func eventText(e *Event) string {
	if e == nil {
		return ""
	}
	switch e.Name {
	case EventBeforeLLMRequest:
		return e.UserText
	case EventAfterLLMResponse:
		return e.LLMText
	default:
		return ""
	}
}

func applyDecisionToEvent(e *Event, dec Decision) {
	if e == nil {
		return
	}
	if dec.OverrideParams != nil {
		e.Params = dec.OverrideParams
	}
	if dec.ReplaceText == nil {
		return
	}
	switch e.Name {
	case EventBeforeLLMRequest:
		e.UserText = *dec.ReplaceText
	case EventAfterLLMResponse:
		e.LLMText = *dec.ReplaceText
	}
}

func (c *Chain) debugLog(rec debugRecord, dec Decision) {
	c.debugMu.Lock()
	defer c.debugMu.Unlock()
	if c.debugW == nil {
		return
	}

	e := rec.event
	out := eventText(e)
	entry := debugEntry{
		Timestamp:    rec.started.UTC().Format(time.RFC3339Nano),
		Event:        string(e.Name),
		MiddlewareID: rec.id,
		Priority:     rec.priority,
		Skipped:      rec.skipped,
		Reason:       dec.Reason,
		Cancel:       dec.Cancel,
		ElapsedMS:    time.Since(rec.started).Milliseconds(),
		InputChars:   utf8.RuneCountInString(rec.in),
		OutputChars:  utf8.RuneCountInString(out),
		InputTokens:  estimateTokens(rec.in),
		OutputTokens: estimateTokens(out),
	}
	if id, ok := e.Context[CtxRunID].(string); ok {
		entry.RunID = id
	}
	if e.Params != nil {
		entry.MaxTokens = e.Params.MaxTokens
	}

	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = c.debugW.Write(append(b, '\n'))
}
