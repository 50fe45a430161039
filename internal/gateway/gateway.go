package gateway

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"plancal/internal/chat"
	"plancal/internal/config"
	"plancal/internal/llm"
	appLog "plancal/internal/log"
	"plancal/internal/middleware"
	"plancal/internal/planner"
	_ "plancal/middlewares/autoload" // Auto-load all middlewares
)

// newAdapter is swapped in tests.
var newAdapter = llm.NewAdapter

// Gateway wires a loaded config into a ready planner.
type Gateway struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Gateway {
	return &Gateway{cfg: cfg}
}

// Planner resolves the credential, builds the adapter and middleware chain,
// and returns a planner plus a cleanup func that closes the debug log.
// A missing credential surfaces as config.ErrMissingCredential.
func (g *Gateway) Planner(ctx context.Context) (*planner.Planner, func(), error) {
	cfg := g.cfg
	apiKey, err := cfg.Credential()
	if err != nil {
		return nil, nil, err
	}

	adapter, err := newAdapter(ctx, llm.Options{
		Provider: llm.Provider(cfg.Provider),
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		APIKey:   apiKey,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize adapter: %w", err)
	}

	mwLog, closeLog := openDebugLog(cfg.DebugLog)
	chain := middleware.NewChainFromRegistry(mwLog, cfg.DisabledMiddlewares...)
	var ids []string
	if chain != nil {
		ids = chain.IDs()
	}

	svc := chat.NewService(adapter,
		chat.WithMiddlewareChain(chain),
		chat.WithParams(middleware.LLMParams{
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			MaxTokens:   cfg.MaxTokens,
		}),
	)
	p := planner.New(svc, planner.Options{
		RequestDelay:   cfg.RequestDelay,
		RequestTimeout: cfg.RequestTimeout,
		TokenBudget:    cfg.TokenBudget,
	})

	appLog.Info("planner ready", "provider", cfg.Provider, "model", cfg.Model, "middlewares", ids)
	return p, closeLog, nil
}

// openDebugLog opens the JSONL middleware log for appending. Failures only
// disable the log.
func openDebugLog(path string) (io.Writer, func()) {
	if path == "" {
		return nil, func() {}
	}
	_ = os.MkdirAll(filepath.Dir(path), 0o755)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		appLog.Warn("failed to open middleware log file", "path", path, "err", err)
		return nil, func() {}
	}
	return f, func() { _ = f.Close() }
}
