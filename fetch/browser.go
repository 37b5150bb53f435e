package fetch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"

	"goat-importer/config"
)

// userAgent is the browser identity presented to the target. Presenting a
// realistic identity is a correctness requirement: the catalog serves a block
// page to anything that looks automated, and a block page has no embedded
// data block to extract from.
const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrPageLoadTimeout marks a navigation that ran out its deadline.
var ErrPageLoadTimeout = errors.New("fetch: page load timed out")

// PageFetcher obtains the rendered HTML of a URL.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Browser is a chromedp-backed PageFetcher. One Browser owns one Chrome
// allocator; individual fetches get their own tab and timeout.
type Browser struct {
	cfg      *config.Config
	logger   *logrus.Logger
	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewBrowser starts a headless Chrome allocator with the automation-detection
// signals suppressed.
func NewBrowser(cfg *config.Config, logger *logrus.Logger) *Browser {
	chromeBin := findChromeBinary(cfg.ChromeBin)
	logger.Infof("[browser] Using browser binary: %s", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		// The site's frontend probes navigator.webdriver
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("lang", "en-US"),
		chromedp.WindowSize(1366, 900),
		chromedp.UserAgent(userAgent),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	return &Browser{
		cfg:      cfg,
		logger:   logger,
		allocCtx: silentCtx,
		cancel: func() {
			cancelSilent()
			cancelAlloc()
		},
	}
}

// withNavDeadline bounds tab by the navigation timeout and by the caller's
// context. Tab contexts descend from the allocator, not the caller, so the
// caller's cancellation has to be bridged in explicitly.
func withNavDeadline(caller, tab context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	tab, cancel := context.WithTimeout(tab, timeout)
	stop := context.AfterFunc(caller, cancel)
	return tab, func() {
		stop()
		cancel()
	}
}

// FetchHTML navigates to url in a fresh tab, waits the fixed settle time for
// client-side rendering, and returns the document's outer HTML.
func (b *Browser) FetchHTML(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(b.allocCtx)
	defer cancelTab()

	timeout := time.Duration(b.cfg.NavTimeoutSec) * time.Second
	tabCtx, cancel := withNavDeadline(ctx, tabCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.Sleep(time.Duration(b.cfg.SettleMs)*time.Millisecond),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("%w: %s", ErrPageLoadTimeout, url)
		}
		return "", fmt.Errorf("fetch %s: %w", url, err)
	}

	b.logger.Debugf("[browser] Fetched %s (%d bytes)", url, len(html))
	return html, nil
}

// Close tears down the Chrome allocator.
func (b *Browser) Close() {
	b.cancel()
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
