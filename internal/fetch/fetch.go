package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"github.com/mhartmann/auswaerts/internal/logger"
	"golang.org/x/net/html/charset"
)

const (
	// DefaultTimeout bounds a single HTTP attempt.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxAttempts is the total attempt count including the first
	// request. With 3 attempts and a 1s base delay the waits are 1s, 2s.
	DefaultMaxAttempts = 3

	// DefaultBaseDelay is the wait before the second attempt; it doubles
	// for every attempt after that.
	DefaultBaseDelay = 1 * time.Second

	// UserAgent identifies the tool to the portal.
	UserAgent = "auswaerts/1.0 (github.com/mhartmann/auswaerts)"
)

// StatusError reports a non-2xx response. It is retryable; callers only see
// it after all attempts are exhausted.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.Code, e.URL)
}

// Client wraps an http.Client with retry and backoff. The zero value is not
// usable; create one with New.
type Client struct {
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
	header      http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client, e.g. with one holding
// the authenticated session cookies owned by the login collaborator.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMaxAttempts sets the total attempt count including the first request.
func WithMaxAttempts(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithBaseDelay sets the wait before the second attempt. Tests use a
// millisecond delay to keep retry paths fast.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) { c.baseDelay = d }
}

// WithHeader adds a header sent on every request.
func WithHeader(key, value string) Option {
	return func(c *Client) { c.header.Set(key, value) }
}

// New creates a Client with the default timeout, attempt count and base delay.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		maxAttempts: DefaultMaxAttempts,
		baseDelay:   DefaultBaseDelay,
		header:      http.Header{},
	}
	c.header.Set("User-Agent", UserAgent)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get performs a GET with retry. The response body is open on success; the
// caller owns closing it.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.do(ctx, func() (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	})
}

// PostForm performs a form-encoded POST with retry. A fresh request body is
// built for every attempt.
func (c *Client) PostForm(ctx context.Context, rawURL string, data url.Values) (*http.Response, error) {
	encoded := data.Encode()
	return c.do(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(encoded))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		return req, nil
	})
}

// do runs one request builder under the retry policy. Building a request is
// a programmer error and never retried.
func (c *Client) do(ctx context.Context, build func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response

	operation := func() error {
		req, err := build()
		if err != nil {
			return backoff.Permanent(fmt.Errorf("building request: %w", err))
		}
		for k, vs := range c.header {
			for _, v := range vs {
				req.Header.Set(k, v)
			}
		}

		r, err := c.http.Do(req)
		if err != nil {
			logger.Incr("fetch.transport_errors")
			return err
		}
		if r.StatusCode < 200 || r.StatusCode >= 300 {
			// Drain so the connection can be reused across attempts.
			io.Copy(io.Discard, io.LimitReader(r.Body, 4096))
			r.Body.Close()
			logger.Incr("fetch.status_errors")
			return &StatusError{Code: r.StatusCode, URL: req.URL.String()}
		}
		resp = r
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.baseDelay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(b, uint64(c.maxAttempts-1)), ctx)

	notify := func(err error, wait time.Duration) {
		logger.Warn("request failed, retrying", logger.Fields{
			"wait": wait.String(),
		})
	}

	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	logger.Incr("fetch.requests")
	return resp, nil
}

// Document fetches a URL via GET and parses the response as an HTML document,
// transcoding from the charset declared in the Content-Type header.
func (c *Client) Document(ctx context.Context, rawURL string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseDocument(resp)
}

// PostFormDocument performs a form POST and parses the response as HTML.
func (c *Client) PostFormDocument(ctx context.Context, rawURL string, data url.Values) (*goquery.Document, error) {
	resp, err := c.PostForm(ctx, rawURL, data)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return parseDocument(resp)
}

// Bytes fetches a URL via GET and returns the raw body, used for the binary
// spreadsheet export.
func (c *Client) Bytes(ctx context.Context, rawURL string) ([]byte, error) {
	resp, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return data, nil
}

func parseDocument(resp *http.Response) (*goquery.Document, error) {
	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
