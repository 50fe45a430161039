package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		"PLANCAL_PROVIDER", "PLANCAL_MODEL", "PLANCAL_BASE_URL", "PLANCAL_LISTEN",
		"PLANCAL_LOG_LEVEL", "PLANCAL_REQUEST_DELAY", "PLANCAL_API_KEY",
		"PLANCAL_OPENAI_API_KEY", "PLANCAL_ANTHROPIC_API_KEY", "PLANCAL_GEMINI_API_KEY",
		"OPENAI_API_KEY", "ANTHROPIC_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(v, "")
	}
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plancal.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "openai" || cfg.Model != "gpt-3.5-turbo" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.RequestDelay != 2*time.Second {
		t.Fatalf("expected 2s request delay, got %v", cfg.RequestDelay)
	}
	if cfg.RequestTimeout != 0 {
		t.Fatalf("expected no request timeout by default, got %v", cfg.RequestTimeout)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, `
provider: anthropic
model: claude-3-5-haiku-latest
request_delay: 0s
max_tokens: 512
disabled_middlewares: [event_log]
`)
	t.Setenv("PLANCAL_MODEL", "claude-3-5-sonnet-latest")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Provider != "anthropic" {
		t.Fatalf("expected provider from file, got %s", cfg.Provider)
	}
	if cfg.Model != "claude-3-5-sonnet-latest" {
		t.Fatalf("expected env to override model, got %s", cfg.Model)
	}
	if cfg.RequestDelay != 0 {
		t.Fatalf("expected explicit zero delay kept, got %v", cfg.RequestDelay)
	}
	if cfg.MaxTokens != 512 || len(cfg.DisabledMiddlewares) != 1 {
		t.Fatalf("unexpected file values: %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(writeFile(t, "provider: [openai")); err == nil {
		t.Fatalf("expected YAML error")
	}
}

func TestLoadBadDelayEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLANCAL_REQUEST_DELAY", "two seconds")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected duration parse error")
	}
}

func TestCredentialLookupOrder(t *testing.T) {
	clearEnv(t)
	cfg := DefaultConfig()
	cfg.Normalize()

	if _, err := cfg.Credential(); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "conventional")
	if key, _ := cfg.Credential(); key != "conventional" {
		t.Fatalf("expected conventional key, got %q", key)
	}
	t.Setenv("PLANCAL_OPENAI_API_KEY", "provider-scoped")
	if key, _ := cfg.Credential(); key != "provider-scoped" {
		t.Fatalf("expected provider-scoped key, got %q", key)
	}
	t.Setenv("PLANCAL_API_KEY", "generic")
	if key, _ := cfg.Credential(); key != "generic" {
		t.Fatalf("expected generic key, got %q", key)
	}
	cfg.APIKey = "from-file"
	if key, _ := cfg.Credential(); key != "from-file" {
		t.Fatalf("expected file key first, got %q", key)
	}
}

func TestCredentialNotNeededForOllama(t *testing.T) {
	clearEnv(t)
	cfg := &Config{Provider: "ollama"}
	key, err := cfg.Credential()
	if err != nil || key != "" {
		t.Fatalf("expected no credential for ollama, got %q %v", key, err)
	}
}

func TestDumpMasksKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.APIKey = "sk-secret"
	out, err := cfg.Dump()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(string(out), "sk-secret") || !strings.Contains(string(out), "***") {
		t.Fatalf("expected masked key, got:\n%s", out)
	}
	if cfg.APIKey != "sk-secret" {
		t.Fatalf("expected original config untouched")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "plancal.yaml")

	cfg := DefaultConfig()
	cfg.Provider = "ollama"
	cfg.Model = "qwen2.5"
	cfg.RequestDelay = 500 * time.Millisecond
	cfg.DisabledMiddlewares = []string{"event_log"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Model != "qwen2.5" || got.RequestDelay != 500*time.Millisecond {
		t.Fatalf("unexpected config %+v", got)
	}
	if len(got.DisabledMiddlewares) != 1 || got.DisabledMiddlewares[0] != "event_log" {
		t.Fatalf("expected disabled middlewares kept, got %v", got.DisabledMiddlewares)
	}
}
