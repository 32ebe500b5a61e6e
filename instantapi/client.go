// Package instantapi provides an HTTP client for the InstantAPI web data
// extraction service. It implements instantmarqo.Extractor and
// instantmarqo.LinkDiscoverer.
package instantapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fwojciec/instantmarqo"
	"github.com/tidwall/gjson"
)

// DefaultBaseURL is the InstantAPI endpoint root.
const DefaultBaseURL = "https://instantapi.ai/api"

// DefaultTimeout is generous because the service renders the page and runs
// extraction before responding.
const DefaultTimeout = 120 * time.Second

// Ensure Client implements the domain interfaces at compile time.
var (
	_ instantmarqo.Extractor      = (*Client)(nil)
	_ instantmarqo.LinkDiscoverer = (*Client)(nil)
)

// Client calls the InstantAPI retrieve and next_pages endpoints.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient sets the underlying HTTP client.
// The client's timeout takes precedence over WithTimeout.
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

// NewClient creates a new Client authenticating with apiKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
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

// retrievePayload is the JSON body of a retrieve request. Optional fields
// are omitted unless set.
type retrievePayload struct {
	WebpageURL           string         `json:"webpage_url"`
	APIMethodName        string         `json:"api_method_name"`
	APIResponseStructure string         `json:"api_response_structure"`
	APIKey               string         `json:"api_key"`
	APIParameters        map[string]any `json:"api_parameters,omitempty"`
	CountryCode          string         `json:"country_code,omitempty"`
	Verbose              bool           `json:"verbose,omitempty"`
	WaitForXPath         string         `json:"wait_for_xpath,omitempty"`
	EnableJavaScript     *bool          `json:"enable_javascript,omitempty"`
	CacheTTL             int            `json:"cache_ttl,omitempty"`
	SERPLimit            int            `json:"serp_limit,omitempty"`
	SERPSite             string         `json:"serp_site,omitempty"`
	SERPPageNum          int            `json:"serp_page_num,omitempty"`
}

// Extract calls the retrieve endpoint and returns the extracted object.
func (c *Client) Extract(ctx context.Context, req instantmarqo.ExtractRequest) (map[string]any, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if c.apiKey == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EUNAUTHORIZED, "InstantAPI key required")
	}

	structure, err := req.ResponseStructure.JSON()
	if err != nil {
		return nil, err
	}

	body, err := c.post(ctx, "/retrieve/", retrievePayload{
		WebpageURL:           req.WebpageURL,
		APIMethodName:        req.MethodName,
		APIResponseStructure: structure,
		APIKey:               c.apiKey,
		APIParameters:        req.Parameters,
		CountryCode:          req.CountryCode,
		Verbose:              req.Verbose,
		WaitForXPath:         req.WaitForXPath,
		EnableJavaScript:     req.EnableJavaScript,
		CacheTTL:             req.CacheTTL,
		SERPLimit:            req.SERPLimit,
		SERPSite:             req.SERPSite,
		SERPPageNum:          req.SERPPageNum,
	})
	if err != nil {
		return nil, err
	}

	if !gjson.ValidBytes(body) || !gjson.ParseBytes(body).IsObject() {
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "unexpected retrieve response for %s", req.WebpageURL)
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode retrieve response: %w", err)
	}
	return data, nil
}

// NextPages calls the next_pages endpoint and returns the URLs it reports.
// Both {"next_pages": [...]} and a bare JSON array are accepted.
func (c *Client) NextPages(ctx context.Context, webpageURL string) ([]string, error) {
	if webpageURL == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EINVALID, "webpage URL required")
	}
	if c.apiKey == "" {
		return nil, instantmarqo.Errorf(instantmarqo.EUNAUTHORIZED, "InstantAPI key required")
	}

	body, err := c.post(ctx, "/next_pages/", map[string]string{
		"webpage_url": webpageURL,
		"api_key":     c.apiKey,
	})
	if err != nil {
		return nil, err
	}

	list := gjson.ParseBytes(body)
	if list.IsObject() {
		list = list.Get("next_pages")
	}
	if !list.IsArray() {
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "unexpected next_pages response for %s", webpageURL)
	}

	urls := []string{}
	list.ForEach(func(_, v gjson.Result) bool {
		if u := strings.TrimSpace(v.String()); u != "" {
			urls = append(urls, u)
		}
		return true
	})
	return urls, nil
}

// post sends payload as JSON and returns the body of a successful response.
// Error statuses and {"error": true} bodies are turned into domain errors.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	if gjson.GetBytes(body, "error").Type == gjson.True {
		reason := gjson.GetBytes(body, "reason").String()
		if reason == "" {
			reason = "unknown error"
		}
		return nil, instantmarqo.Errorf(instantmarqo.EUNAVAILABLE, "InstantAPI: %s", reason)
	}

	return body, nil
}

// statusError maps an HTTP error status to a domain error carrying the body.
func statusError(status int, body []byte) error {
	reason := strings.TrimSpace(string(body))
	if r := gjson.GetBytes(body, "reason"); r.Exists() {
		reason = r.String()
	}
	if reason == "" {
		reason = http.StatusText(status)
	}

	code := instantmarqo.EUNAVAILABLE
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = instantmarqo.EUNAUTHORIZED
	case status >= 400 && status < 500:
		code = instantmarqo.EINVALID
	}
	return instantmarqo.Errorf(code, "InstantAPI HTTP %d: %s", status, reason)
}
