// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// RequestIDHeader carries a per-call UUID for correlating server logs.
	RequestIDHeader = "X-Request-ID"
)

var (
	// Shared HTTP client with connection pooling for all API requests.
	// No client-level timeout; deadlines come from the request context.
	sharedHTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
	}
)

// RequestOptions configures a single Call. A nil *RequestOptions means GET
// with no body.
type RequestOptions struct {
	Method  string
	Headers map[string]string
	// Body is JSON-encoded unless it is already a []byte.
	Body any
}

// Client calls the dashboard API and tracks the shared loading/error state.
// One Client is shared by every panel, so the state is process-wide.
type Client struct {
	baseURL    string
	endpoints  Endpoints
	httpClient *http.Client
	timeout    time.Duration
	headers    map[string]string

	state *tracker
}

// NewClient creates a client for the service at baseURL.
// An empty baseURL is allowed when every endpoint is absolute.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		endpoints:  DefaultEndpoints(),
		httpClient: sharedHTTPClient,
		state:      &tracker{},
	}
}

// WithEndpoints overrides endpoint paths. Empty fields keep their defaults.
func (c *Client) WithEndpoints(e Endpoints) *Client {
	c.endpoints = e.withDefaults()
	return c
}

// WithTimeout sets a per-request timeout. Zero means no timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.timeout = timeout
	return c
}

// WithHeaders adds static headers sent on every request.
func (c *Client) WithHeaders(headers map[string]string) *Client {
	if len(headers) == 0 {
		return c
	}
	if c.headers == nil {
		c.headers = make(map[string]string, len(headers))
	}
	for k, v := range headers {
		c.headers[k] = v
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Endpoints returns the configured endpoint paths.
func (c *Client) Endpoints() Endpoints {
	return c.endpoints
}

// State returns the current loading/error snapshot.
func (c *Client) State() State {
	return c.state.snapshot()
}

// Subscribe registers fn to be called on every state transition. fn runs on
// the goroutine performing the call. The returned function unsubscribes.
func (c *Client) Subscribe(fn func(State)) func() {
	return c.state.subscribe(fn)
}

// =============================================================================
// CALL
// =============================================================================

// Call performs one request against endpoint and decodes the JSON response
// into out (when out is non-nil).
//
// Loading is raised for the duration of the call and the recorded error is
// cleared when it starts. Any failure is recorded and then returned.
func (c *Client) Call(ctx context.Context, endpoint string, opts *RequestOptions, out any) (err error) {
	c.state.begin()
	defer func() { c.state.settle(err) }()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := c.newRequest(ctx, endpoint, opts)
	if err != nil {
		return err
	}

	c.logRequest(req)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("API Error: %s %s: %v", req.Method, req.URL.Path, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	c.logResponse(resp, time.Since(start))

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       truncateBody(body),
		}
	}

	return decodeBody(body, out)
}

// newRequest builds the HTTP request with the standard JSON headers.
func (c *Client) newRequest(ctx context.Context, endpoint string, opts *RequestOptions) (*http.Request, error) {
	target, err := c.resolve(endpoint)
	if err != nil {
		return nil, err
	}

	method := http.MethodGet
	var body io.Reader
	var headers map[string]string
	if opts != nil {
		if opts.Method != "" {
			method = strings.ToUpper(opts.Method)
		}
		headers = opts.Headers
		if opts.Body != nil {
			data, err := encodeBody(opts.Body)
			if err != nil {
				return nil, err
			}
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, uuid.NewString())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req, nil
}

// resolve turns endpoint into an absolute URL.
func (c *Client) resolve(endpoint string) (string, error) {
	endpoint = strings.TrimSpace(endpoint)
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.IsAbs() {
		return endpoint, nil
	}
	if c.baseURL == "" {
		return "", fmt.Errorf("%w: cannot resolve %q", ErrNotConfigured, endpoint)
	}
	base, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", c.baseURL, err)
	}
	// Leading slash is kept relative to the base path, not the host root.
	return base.ResolveReference(&url.URL{
		Path:     strings.TrimPrefix(u.Path, "/"),
		RawQuery: u.RawQuery,
	}).String(), nil
}

func encodeBody(v any) ([]byte, error) {
	if b, ok := v.([]byte); ok {
		return b, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return data, nil
}

// decodeBody parses a 2xx body. With a nil out the body must still be valid
// JSON, except that an empty body is accepted.
func decodeBody(body []byte, out any) error {
	if out == nil {
		trimmed := bytes.TrimSpace(body)
		if len(trimmed) == 0 || json.Valid(trimmed) {
			return nil
		}
		return errors.New("failed to parse response: invalid JSON")
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// readResponse reads the response body with size limits to prevent memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}

	return body, nil
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}

// logRequest logs an API request without headers or body.
func (c *Client) logRequest(req *http.Request) {
	log.Printf("API Request: %s %s [%s]", req.Method, req.URL.Path, req.Header.Get(RequestIDHeader))
}

// logResponse logs an API response with duration.
func (c *Client) logResponse(resp *http.Response, duration time.Duration) {
	log.Printf("API Response: %d %s (%v)", resp.StatusCode, resp.Request.URL.Path, duration)
}
