// Package http fetches pages and sitemaps over plain HTTP. Nothing here
// renders JavaScript; that is left to the extraction service.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fwojciec/instantmarqo"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies crawl traffic.
const DefaultUserAgent = "instantmarqo/1.0 (+https://github.com/fwojciec/instantmarqo)"

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 10 << 20

var _ instantmarqo.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves raw HTML from URLs.
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// Option configures a Fetcher or a SitemapService.
type Option func(*options)

type options struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxURLs   int
}

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithHTTPClient sets the underlying HTTP client. Its own timeout applies
// instead of WithTimeout.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.client = c
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithMaxURLs bounds the URLs a SitemapService collects per call.
// Zero means no bound.
func WithMaxURLs(n int) Option {
	return func(o *options) {
		o.maxURLs = n
	}
}

func newOptions(opts []Option) options {
	o := options{timeout: DefaultFetchTimeout, userAgent: DefaultUserAgent, maxURLs: DefaultMaxSitemapURLs}
	for _, opt := range opts {
		opt(&o)
	}
	if o.client == nil {
		o.client = &http.Client{Timeout: o.timeout}
	}
	return o
}

// NewFetcher creates a new Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	o := newOptions(opts)
	return &Fetcher{client: o.client, userAgent: o.userAgent}
}

// Fetch retrieves the body of url. A 404 is ENOTFOUND; other non-200
// statuses and transport failures are EUNAVAILABLE.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := get(ctx, f.client, f.userAgent, url)
	if err != nil {
		return "", err
	}
	defer body.Close()

	b, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", url, err)
	}
	return string(b), nil
}

// Close releases resources. It is a no-op for plain HTTP.
func (f *Fetcher) Close() error {
	return nil
}

// get issues a GET and returns the body of a 200 response.
func get(ctx context.Context, client *http.Client, userAgent, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "invalid URL %q: %v", url, err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "GET %s: %v", url, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, instantmarqo.Errorf(instantmarqo.ENOTFOUND, "HTTP 404 for %s", url)
	default:
		resp.Body.Close()
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "HTTP %d for %s", resp.StatusCode, url)
	}
}
