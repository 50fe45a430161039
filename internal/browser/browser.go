package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"
)

var ErrNotStarted = errors.New("browser not started")

// readySelector is set by the calendar page once the widget has rendered.
const readySelector = `[data-ready="true"]`

// Config holds browser configuration.
type Config struct {
	Headless   bool
	ChromePath string
	// Timeout bounds one snapshot. Zero means 30s.
	Timeout time.Duration
}

// Controller manages a headless Chrome/Chromium instance.
type Controller struct {
	cfg         Config
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// New creates a browser controller.
func New(cfg Config) *Controller {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Controller{cfg: cfg}
}

// Start launches Chrome/Chromium.
func (c *Controller) Start(ctx context.Context) error {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", c.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("allow-file-access-from-files", true),
		chromedp.WindowSize(1280, 900),
	)
	if c.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(c.cfg.ChromePath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	c.allocCtx = allocCtx
	c.allocCancel = cancel

	// Trigger start by creating a context
	bctx, _ := chromedp.NewContext(c.allocCtx)
	if err := chromedp.Run(bctx); err != nil {
		c.Stop()
		return fmt.Errorf("failed to start browser: %w", err)
	}
	return nil
}

// Stop gracefully shuts down Chrome.
func (c *Controller) Stop() {
	if c.allocCancel != nil {
		c.allocCancel()
		c.allocCancel = nil
		c.allocCtx = nil
	}
}

// Snapshot renders a standalone HTML page and returns a full-page PNG once
// the calendar reports it is ready.
func (c *Controller) Snapshot(ctx context.Context, page []byte) ([]byte, error) {
	if c.allocCtx == nil {
		return nil, ErrNotStarted
	}

	path, cleanup, err := writePage(page)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	tabCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, c.cfg.Timeout)
	defer cancelTimeout()
	// Caller cancellation closes the tab too.
	stop := context.AfterFunc(ctx, cancelTimeout)
	defer stop()

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("file://"+path),
		chromedp.WaitReady(readySelector, chromedp.ByQuery),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, fmt.Errorf("snapshot failed: %w", err)
	}
	return buf, nil
}

func writePage(page []byte) (string, func(), error) {
	dir, err := os.MkdirTemp("", "plancal-snapshot-")
	if err != nil {
		return "", nil, fmt.Errorf("snapshot temp dir: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(dir) }

	path := filepath.Join(dir, "calendar.html")
	if err := os.WriteFile(path, page, 0o600); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("snapshot write page: %w", err)
	}
	return path, cleanup, nil
}
