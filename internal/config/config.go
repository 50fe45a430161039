package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"plancal/internal/llm"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ErrMissingCredential means no API key was found for a provider that needs one.
var ErrMissingCredential = errors.New("missing API credential")

// DefaultPath is the config file looked up when none is given.
const DefaultPath = "plancal.yaml"

type Config struct {
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url,omitempty"`
	APIKey   string `yaml:"api_key,omitempty"`

	// Listen is the HTTP address for `plancal serve`.
	Listen string `yaml:"listen"`

	// RequestDelay is the fixed pause before every completion request.
	RequestDelay time.Duration `yaml:"request_delay"`
	// RequestTimeout bounds a completion request; zero means no timeout.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	MaxTokens   int     `yaml:"max_tokens,omitempty"`
	Temperature float64 `yaml:"temperature,omitempty"`
	// TokenBudget caps max_tokens per request through the token_budget middleware.
	TokenBudget int `yaml:"token_budget,omitempty"`

	LogLevel string `yaml:"log_level"`
	// DebugLog is the JSONL middleware decision log; empty disables it.
	DebugLog            string   `yaml:"debug_log"`
	DisabledMiddlewares []string `yaml:"disabled_middlewares,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Provider:     string(llm.ProviderOpenAI),
		Listen:       "127.0.0.1:8501",
		RequestDelay: 2 * time.Second,
		LogLevel:     "info",
		DebugLog:     "bin/middleware.debug.jsonl",
	}
}

// Normalize fills empty values with defaults.
func (c *Config) Normalize() {
	if c.Provider == "" {
		c.Provider = string(llm.ProviderOpenAI)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Model == "" {
		c.Model = llm.Provider(c.Provider).DefaultModel()
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8501"
	}
	if c.RequestDelay < 0 {
		c.RequestDelay = 0
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Load reads .env (if present), then the YAML file at path (a missing file is
// not an error), then PLANCAL_* environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.Normalize()
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PLANCAL_PROVIDER"); v != "" {
		c.Provider = v
	}
	if v := os.Getenv("PLANCAL_MODEL"); v != "" {
		c.Model = v
	}
	if v := os.Getenv("PLANCAL_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("PLANCAL_LISTEN"); v != "" {
		c.Listen = v
	}
	if v := os.Getenv("PLANCAL_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("PLANCAL_REQUEST_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("PLANCAL_REQUEST_DELAY: %w", err)
		}
		c.RequestDelay = d
	}
	return nil
}

// Credential returns the API key for the configured provider. Lookup order:
// api_key in the file, PLANCAL_API_KEY, PLANCAL_<PROVIDER>_API_KEY, then the
// provider's conventional variable. Ollama needs none and gets "".
func (c *Config) Credential() (string, error) {
	p := llm.Provider(c.Provider)
	if !p.NeedsAPIKey() {
		return "", nil
	}
	if c.APIKey != "" {
		return c.APIKey, nil
	}

	vars := []string{"PLANCAL_API_KEY", "PLANCAL_" + strings.ToUpper(c.Provider) + "_API_KEY"}
	switch p {
	case llm.ProviderOpenAI:
		vars = append(vars, "OPENAI_API_KEY")
	case llm.ProviderAnthropic:
		vars = append(vars, "ANTHROPIC_API_KEY")
	case llm.ProviderGemini:
		vars = append(vars, "GOOGLE_API_KEY", "GEMINI_API_KEY")
	}
	for _, v := range vars {
		if key := strings.TrimSpace(os.Getenv(v)); key != "" {
			return key, nil
		}
	}
	return "", fmt.Errorf("%s: %w", c.Provider, ErrMissingCredential)
}

// Dump renders the config as YAML with the API key masked.
func (c *Config) Dump() ([]byte, error) {
	cp := *c
	if cp.APIKey != "" {
		cp.APIKey = "***"
	}
	return yaml.Marshal(&cp)
}

// Save writes the config as YAML, creating parent directories. The file may
// hold an API key, so it is written owner-only.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
