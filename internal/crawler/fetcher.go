package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/net/html/charset"
)

// DefaultUserAgent identifies sitecrawl in HTTP requests.
const DefaultUserAgent = "sitecrawl/1.0 (+https://github.com/nao1215/sitecrawl)"

// defaultMaxBodySize caps how much of a response body is read.
const defaultMaxBodySize = 10 * 1024 * 1024 // 10MB

// Fetch failure reasons. A *FetchError wraps exactly one of these or a
// transport error.
var (
	// ErrHTTPStatus is returned for responses with status 400 or above.
	ErrHTTPStatus = errors.New("unexpected HTTP status")

	// ErrRedirect is returned when the client stopped at a redirect, because
	// it leaves the site or exceeds the redirect limit.
	ErrRedirect = errors.New("redirect not followed")

	// ErrContentType is returned when the response is not an HTML document.
	ErrContentType = errors.New("content type is not text/html")

	// ErrCancelled is returned when the crawl was cancelled before or during the fetch.
	ErrCancelled = errors.New("fetch cancelled")
)

// FetchError describes why a page could not be fetched.
type FetchError struct {
	// URL is the address that was requested.
	URL string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// ContentType is the Content-Type header of the response, if any.
	ContentType string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v (status %d)", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Fetcher retrieves the content of a single page.
//
// Implementations must honour ctx: if it is already done the call fails
// without issuing network I/O, and if it is cancelled mid-flight the call
// aborts and reports failure.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPFetcher is the default Fetcher. It issues GET requests and accepts only
// successful HTML responses.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
	logger      *slog.Logger
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum number of body bytes read per page.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithFetcherLogger sets the logger used for fetch diagnostics.
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) {
		f.logger = logger
	}
}

// NewHTTPFetcher creates an HTTPFetcher using client. A nil client means
// http.DefaultClient.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	return f
}

// Fetch downloads pageURL and returns its body decoded to UTF-8.
// Every failure is logged and returned as a *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	body, err := f.fetch(ctx, pageURL)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			f.logger.Debug("fetch cancelled", "url", pageURL)
		} else {
			f.logger.Warn("fetch failed", "url", pageURL, "error", err)
		}
		return nil, err
	}
	return body, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if ctx.Err() != nil {
		return nil, &FetchError{URL: pageURL, Err: ErrCancelled}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &FetchError{URL: pageURL, Err: fmt.Errorf("%w: %w", ErrCancelled, err)}
		}
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrHTTPStatus}
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrRedirect}
	}
	if !strings.Contains(strings.ToLower(contentType), "text/html") {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: ErrContentType}
	}

	reader, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBodySize), contentType)
	if err != nil {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, ContentType: contentType, Err: err}
	}
	return body, nil
}
