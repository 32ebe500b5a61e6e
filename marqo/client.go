// Package marqo provides an HTTP client for the Marqo REST API implementing
// instantmarqo.IndexService.
package marqo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/instantmarqo"
	"github.com/tidwall/gjson"
)

// DefaultURL is where a local Marqo container listens.
const DefaultURL = "http://localhost:8882"

// DefaultTimeout covers model downloads on first index creation.
const DefaultTimeout = 5 * time.Minute

// Ensure Client implements instantmarqo.IndexService at compile time.
var _ instantmarqo.IndexService = (*Client)(nil)

// Client talks to a Marqo instance over HTTP.
type Client struct {
	url     string
	apiKey  string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the x-api-key header sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithTimeout sets the timeout for each request.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// NewClient creates a Client for the Marqo instance at baseURL.
// An empty baseURL means DefaultURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	c := &Client{
		url:     strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		c.client = &http.Client{Timeout: c.timeout}
	}
	return c
}

// indexPath returns the escaped path of an index resource.
func indexPath(name string, parts ...string) string {
	p := "/indexes/" + url.PathEscape(name)
	for _, part := range parts {
		p += "/" + part
	}
	return p
}

// do sends a request with an optional JSON body and decodes a JSON response
// into out when out is non-nil. It returns the raw response body.
func (c *Client) do(ctx context.Context, method, path string, in, out any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url+path, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "marqo unreachable at %s: %v", c.url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp.StatusCode, raw)
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
	}
	return raw, nil
}

// responseError maps a Marqo error body ({"code": ..., "message": ...}) to a
// domain error.
func responseError(status int, raw []byte) error {
	code := gjson.GetBytes(raw, "code").String()
	msg := gjson.GetBytes(raw, "message").String()
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch {
	case code == "index_not_found" || status == http.StatusNotFound:
		return instantmarqo.Errorf(instantmarqo.ENOTFOUND, "%s", msg)
	case code == "index_already_exists" || status == http.StatusConflict:
		return instantmarqo.Errorf(instantmarqo.ECONFLICT, "%s", msg)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return instantmarqo.Errorf(instantmarqo.EUNAUTHORIZED, "%s", msg)
	case status >= 400 && status < 500:
		return instantmarqo.Errorf(instantmarqo.EINVALID, "%s", msg)
	default:
		return instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "marqo HTTP %d: %s", status, msg)
	}
}
