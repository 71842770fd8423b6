package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// DefaultMinContentChars is the extracted text length below which a page is
// assumed to be rendered client-side.
const DefaultMinContentChars = 200

// renderSettle is how long scripts get to populate the page after load
const renderSettle = 2 * time.Second

// ShouldUseBrowser reports whether extracted text is too short to be the
// real posting.
func ShouldUseBrowser(extractedText string, minChars int) bool {
	if minChars <= 0 {
		minChars = DefaultMinContentChars
	}
	return len([]rune(strings.TrimSpace(extractedText))) < minChars
}

// RenderFunc returns the rendered HTML of a page
type RenderFunc func(ctx context.Context, url string) (string, error)

// BrowserRenderer returns a RenderFunc backed by headless Chrome. Requires
// Chrome or Chromium on the host.
func BrowserRenderer(timeout time.Duration, logger logrus.FieldLogger) RenderFunc {
	return func(ctx context.Context, url string) (string, error) {
		return WithBrowser(ctx, url, timeout, logger)
	}
}

// WithBrowser renders a page in a headless browser and returns its HTML.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger logrus.FieldLogger) (string, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	log := logger.WithField("url", url)
	log.Debug("starting headless browser")

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	browserCtx, cancel := context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(renderSettle),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	log.WithField("bytes", len(html)).Debug("page rendered")
	return html, nil
}
