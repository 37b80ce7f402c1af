// -- internal/browser/session.go --
package browser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesaworks/smartpost/internal/config"
)

// Session owns a single Chrome process and the one tab the workflow drives.
// All page operations go through Run, which ties each action to both the
// session lifetime and the caller's context.
type Session struct {
	id string

	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	logger *zap.Logger
	cfg    config.BrowserConfig

	closeOnce sync.Once
	closed    bool
	mu        sync.Mutex
}

// NewSession launches a Chrome instance and opens the working tab. The caller
// must Close the session exactly once; Close is idempotent.
func NewSession(ctx context.Context, cfg config.BrowserConfig, logger *zap.Logger) (*Session, error) {
	sessionID := uuid.New().String()

	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	// Container-friendly defaults; user args are appended last so they win.
	opts = append(opts,
		chromedp.NoSandbox,
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)
	for _, arg := range cfg.Args {
		opts = append(opts, chromedp.Flag(trimFlag(arg), true))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		id:          sessionID,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		logger:      logger.Named("browser").With(zap.String("session_id", sessionID)),
		cfg:         cfg,
	}

	// Force the target (tab) to actually start so launch failures surface
	// here rather than on the first page action.
	startCtx, cancel := context.WithTimeout(tabCtx, cfg.NavigationTimeout)
	defer cancel()
	if err := chromedp.Run(startCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser session: %w", err)
	}

	// Auto-accept native JS dialogs. The portal mostly uses in-page modals,
	// but a few confirmations fall through to window.confirm, which would
	// otherwise block the tab indefinitely.
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); ok {
			s.logger.Debug("Accepting native JS dialog.")
			go func() {
				if err := chromedp.Run(tabCtx, page.HandleJavaScriptDialog(true)); err != nil {
					s.logger.Warn("Could not accept native dialog.", zap.Error(err))
				}
			}()
		}
	})

	s.logger.Info("Browser session started.", zap.Bool("headless", cfg.Headless))
	return s, nil
}

// trimFlag strips a leading "--" so config args can be written either way.
func trimFlag(arg string) string {
	for len(arg) > 0 && arg[0] == '-' {
		arg = arg[1:]
	}
	return arg
}

// ID returns the unique identifier for the session.
func (s *Session) ID() string {
	return s.id
}

// Config exposes the wait policy to collaborators.
func (s *Session) Config() config.BrowserConfig {
	return s.cfg
}

// Run executes chromedp actions, ensuring they respect both the session
// lifetime and the incoming request context.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := CombineContext(s.tabCtx, ctx)
	defer cancel()
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads a URL and waits for the document body to be ready.
func (s *Session) Navigate(ctx context.Context, url string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout)
	defer cancel()

	s.logger.Debug("Navigating.", zap.String("url", url))
	if err := s.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// Settle pauses for the configured delay. Used after actions that trigger
// re-renders the page exposes no readiness signal for.
func (s *Session) Settle(ctx context.Context) {
	select {
	case <-time.After(s.cfg.SettleDelay):
	case <-ctx.Done():
	}
}

// Screenshot captures the full viewport into dir, named after the given
// label. Returns the written path.
func (s *Session) Screenshot(ctx context.Context, dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create artifact dir: %w", err)
	}

	var buf []byte
	capCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.Run(capCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.png", label, time.Now().Format("20060102_150405")))
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write screenshot: %w", err)
	}
	s.logger.Info("Screenshot saved.", zap.String("path", path))
	return path, nil
}

// Close terminates the tab and the browser process. Safe to call multiple
// times and from multiple goroutines; only the first call does the work.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.logger.Debug("Closing browser session.")
		if s.tabCancel != nil {
			s.tabCancel()
		}
		if s.allocCancel != nil {
			s.allocCancel()
		}
		s.logger.Info("Browser session closed.")
	})
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// CombineContext derives a context from parentCtx that is additionally
// canceled when secondaryCtx is done.
func CombineContext(parentCtx, secondaryCtx context.Context) (context.Context, context.CancelFunc) {
	combinedCtx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-secondaryCtx.Done():
			// If the secondary context is canceled, cancel the combined context.
			cancel()
		case <-combinedCtx.Done():
			// The combined context was already canceled (likely from the parent), so exit.
		}
	}()

	return combinedCtx, cancel
}
