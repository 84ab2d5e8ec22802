// Package scrape renders the Naver esports schedule page and extracts
// raw fixture rows. The rest of the system never touches rendering:
// extraction and reconciliation consume plain rows.
package scrape

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/chromedp/chromedp"
)

const fetchMaxRetries = 3

// Fetcher renders the schedule page with a headless browser. The page
// builds its schedule cards client-side, so a plain GET returns an empty
// shell.
type Fetcher struct {
	url     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher for the given schedule URL.
func NewFetcher(url string, timeout time.Duration, logger *slog.Logger) *Fetcher {
	return &Fetcher{url: url, timeout: timeout, logger: logger}
}

// Fetch navigates to the schedule page, waits for the schedule cards to
// render, and returns the page HTML. Navigation is retried with
// exponential backoff; running out of retries is a fatal error for the
// caller.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	var html string

	attempt := func() error {
		runCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(runCtx,
			chromedp.DefaultExecAllocatorOptions[:]...)
		defer cancelAlloc()

		browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
		defer cancelBrowser()

		err := chromedp.Run(browserCtx,
			chromedp.Navigate(f.url),
			chromedp.WaitVisible(cardSelector, chromedp.ByQuery),
			chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		)
		if err != nil {
			f.logger.Warn("Schedule fetch attempt failed", "url", f.url, "error", err)
			return err
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), fetchMaxRetries), ctx)
	if err := backoff.Retry(attempt, policy); err != nil {
		return "", fmt.Errorf("fetch schedule page %s: %w", f.url, err)
	}

	// Escape hatch for selector debugging against the live page.
	if os.Getenv("DEBUG_SAVE_HTML") != "" {
		if err := os.WriteFile("debug.html", []byte(html), 0o644); err != nil {
			f.logger.Warn("Failed writing debug HTML", "error", err)
		} else {
			f.logger.Info("Saved debug HTML", "file", "debug.html")
		}
	}

	return html, nil
}
