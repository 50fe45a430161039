package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plancal/internal/plan"
	"plancal/internal/planner"
)

func TestConfigCommandMasksKey(t *testing.T) {
	t.Setenv("PLANCAL_PROVIDER", "")
	t.Setenv("PLANCAL_MODEL", "")
	path := filepath.Join(t.TempDir(), "plancal.yaml")
	if err := os.WriteFile(path, []byte("provider: anthropic\napi_key: sk-secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"--config", path, "config"})
	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	got := out.String()
	if !strings.Contains(got, "provider: anthropic") {
		t.Fatalf("expected provider in dump, got %s", got)
	}
	if strings.Contains(got, "sk-secret") {
		t.Fatalf("expected key masked, got %s", got)
	}
}

func TestPrintEvents(t *testing.T) {
	var out bytes.Buffer
	printEvents(&out, &planner.Result{
		Events: []plan.Event{
			{Title: "讀書", Start: "2025-01-15T09:00", End: "2025-01-15T10:00"},
			{Title: "夜讀", Start: "2025-01-15T23:00", End: "2025-01-15T01:00"},
		},
		Anomalies: []plan.Anomaly{{Index: 1, Event: plan.Event{Title: "夜讀", Start: "2025-01-15T23:00", End: "2025-01-15T01:00"}, Reason: plan.ReasonEndBeforeStart}},
	})

	got := out.String()
	if !strings.HasPrefix(got, "TITLE") {
		t.Fatalf("expected header row, got %s", got)
	}
	if !strings.Contains(got, planner.MsgAnomaly) || !strings.Contains(got, "夜讀 (2025-01-15T23:00 - 2025-01-15T01:00)") {
		t.Fatalf("expected anomaly notice, got %s", got)
	}
}

func TestTUIMissingCredentialPrintsMessage(t *testing.T) {
	for _, v := range []string{
		"PLANCAL_PROVIDER", "PLANCAL_MODEL", "PLANCAL_API_KEY", "PLANCAL_OPENAI_API_KEY", "OPENAI_API_KEY",
	} {
		t.Setenv(v, "")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "plancal.yaml")
	cfgYAML := "provider: openai\ndebug_log: \"\"\n"
	if err := os.WriteFile(path, []byte(cfgYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetErr(&stderr)
	root.SetArgs([]string{"--config", path, "tui"})
	err := root.Execute()
	if !errors.Is(err, errReported) {
		t.Fatalf("expected errReported, got %v", err)
	}
	if got := strings.TrimSpace(stderr.String()); got != planner.MsgMissingCredential {
		t.Fatalf("expected credential message, got %q", got)
	}
}
