package browser

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ErrSessionInit is returned when no browser binary candidate could be
// launched. It is the only scraper failure that propagates to callers.
var ErrSessionInit = errors.New("browser session initialization failed")

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// webdriverPatch hides the automation flag from naive fingerprinting checks.
const webdriverPatch = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined});`

// wellKnownChromePaths are probed after default discovery and any configured
// path, covering the usual Linux install locations.
var wellKnownChromePaths = []string{
	"/usr/bin/chromium-browser",
	"/usr/bin/chromium",
	"/usr/bin/google-chrome",
	"/opt/google/chrome/chrome",
}

// Options configures a browser session.
type Options struct {
	Headless   bool
	ChromePath string
	DataDir    string
}

// Session owns one automated Chrome instance for the duration of a single
// scrape. It is not safe for concurrent use; the orchestrating call stack
// is its only owner.
type Session struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	dataDir     string

	mu       sync.Mutex
	released bool
}

// Acquire launches a browser, trying each binary-resolution strategy in
// order: default discovery, the configured path, then well-known install
// paths. The first candidate that survives an about:blank probe wins;
// exhausting all of them yields ErrSessionInit.
func Acquire(ctx context.Context, opts Options) (*Session, error) {
	candidates := []string{""}
	if opts.ChromePath != "" {
		candidates = append(candidates, opts.ChromePath)
	}
	candidates = append(candidates, wellKnownChromePaths...)

	var lastErr error
	for _, execPath := range candidates {
		s, err := launch(ctx, opts, execPath)
		if err == nil {
			log.Printf("browser session ready (binary: %s)", labelFor(execPath))
			return s, nil
		}
		log.Printf("warning: launch via %s failed: %v", labelFor(execPath), err)
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %v", ErrSessionInit, lastErr)
}

func labelFor(execPath string) string {
	if execPath == "" {
		return "default discovery"
	}
	return execPath
}

func launch(ctx context.Context, opts Options, execPath string) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("window-size", "1920,1080"),
		chromedp.Flag("start-maximized", true),
		chromedp.UserAgent(userAgent),
	)
	if execPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(execPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Probe the candidate with a bounded navigation, then apply the
	// post-launch fingerprint patches.
	probeCtx, probeCancel := context.WithTimeout(browserCtx, 30*time.Second)
	defer probeCancel()
	err := chromedp.Run(probeCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(c context.Context) error {
			return emulation.SetUserAgentOverride(userAgent).Do(c)
		}),
		chromedp.ActionFunc(func(c context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(webdriverPatch).Do(c)
			return err
		}),
		chromedp.ActionFunc(func(c context.Context) error {
			return emulation.SetDeviceMetricsOverride(1920, 1080, 1.0, false).Do(c)
		}),
	)
	if err != nil {
		cancel()
		allocCancel()
		return nil, err
	}

	return &Session{
		ctx:         browserCtx,
		cancel:      cancel,
		allocCancel: allocCancel,
		dataDir:     opts.DataDir,
	}, nil
}

// Context returns the chromedp context all actions for this session must
// run on.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Screenshot captures the current viewport into the data directory.
// Best-effort: callers log the returned error and move on.
func (s *Session) Screenshot(name string) error {
	var buf []byte
	shotCtx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	defer cancel()
	if err := chromedp.Run(shotCtx, chromedp.CaptureScreenshot(&buf)); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dataDir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(s.dataDir, name)
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return err
	}
	log.Printf("screenshot saved: %s", path)
	return nil
}

// Release shuts the browser down. Idempotent, and never panics: a release
// failure must not escape past the orchestrator.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return
	}
	s.released = true
	s.cancel()
	s.allocCancel()
	log.Printf("browser session released")
}
