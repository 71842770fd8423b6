package ingestion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/coverme/internal/fetch"
)

var (
	// ErrInvalidURL is returned when URL is malformed
	ErrInvalidURL = errors.New("invalid URL")
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when no text could be extracted
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Posting is job posting text fetched from a URL
type Posting struct {
	URL      string         `json:"url"`
	Platform fetch.Platform `json:"platform"`
	Text     string         `json:"text"`
	// Rendered is true when the text came from the headless browser
	Rendered bool `json:"rendered"`
}

// URLFetcher fetches job postings over HTTP, optionally re-rendering
// client-side pages in a headless browser.
type URLFetcher struct {
	httpClient *http.Client
	render     fetch.RenderFunc
	minChars   int
	logger     logrus.FieldLogger
}

// FetcherOption configures a URLFetcher
type FetcherOption func(*URLFetcher)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(c *http.Client) FetcherOption {
	return func(f *URLFetcher) { f.httpClient = c }
}

// WithRenderer enables the browser fallback
func WithRenderer(render fetch.RenderFunc) FetcherOption {
	return func(f *URLFetcher) { f.render = render }
}

// WithMinChars sets the text length below which the renderer is tried
func WithMinChars(n int) FetcherOption {
	return func(f *URLFetcher) { f.minChars = n }
}

// WithFetchLogger sets the logger
func WithFetchLogger(logger logrus.FieldLogger) FetcherOption {
	return func(f *URLFetcher) { f.logger = logger }
}

// NewURLFetcher creates a fetcher with the given HTTP timeout.
func NewURLFetcher(timeout time.Duration, opts ...FetcherOption) *URLFetcher {
	if timeout <= 0 {
		timeout = fetch.DefaultTimeout
	}
	f := &URLFetcher{
		httpClient: &http.Client{Timeout: timeout},
		minChars:   fetch.DefaultMinContentChars,
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves a posting and extracts its text with platform-aware
// selectors. A renderer failure keeps the HTTP text.
func (f *URLFetcher) Fetch(ctx context.Context, rawURL string) (*Posting, error) {
	if _, err := fetch.ValidateURL(rawURL); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	platform := fetch.DetectPlatform(rawURL)
	log := f.logger.WithFields(logrus.Fields{"url": rawURL, "platform": platform})

	result, err := fetch.URL(ctx, rawURL, &fetch.Options{Client: f.httpClient})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.WithField("bytes", len(result.HTML)).Debug("fetched posting")

	content := fetch.PlatformContentSelectors(platform)
	noise := fetch.PlatformNoiseSelectors(platform)

	text, err := fetch.ExtractMainText(result.HTML, content, noise...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	posting := &Posting{URL: rawURL, Platform: platform}

	if f.render != nil && fetch.ShouldUseBrowser(text, f.minChars) {
		log.WithField("chars", len(text)).Info("posting text too short, rendering in browser")
		if rendered, ok := f.renderText(ctx, rawURL, content, noise, log); ok {
			text = rendered
			posting.Rendered = true
		}
	}

	posting.Text = CleanText(text)
	if posting.Text == "" {
		return nil, fmt.Errorf("%w: no text found at %s", ErrContentExtractionFailed, rawURL)
	}
	return posting, nil
}

func (f *URLFetcher) renderText(ctx context.Context, rawURL string, content, noise []string, log logrus.FieldLogger) (string, bool) {
	html, err := f.render(ctx, rawURL)
	if err != nil {
		log.WithError(err).Warn("browser rendering failed, using HTTP content")
		return "", false
	}
	text, err := fetch.ExtractMainText(html, content, noise...)
	if err != nil {
		log.WithError(err).Warn("browser content extraction failed")
		return "", false
	}
	return text, true
}
