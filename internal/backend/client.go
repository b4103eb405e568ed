// Package backend talks to the REST API that owns shifts, users and rides.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

// MaxResponseSize caps how much of a response body is read (10MB).
const MaxResponseSize = 10 * 1024 * 1024

// ErrEmptyURL is returned for a request without a URL.
var ErrEmptyURL = errors.New("empty request URL")

// StatusError reports a non-2xx backend response.
type StatusError struct {
	Code    int
	Request core.Request
	Body    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d for %s", e.Code, e.Request)
}

// Doer issues a request and returns the response body.
type Doer interface {
	Do(ctx context.Context, req core.Request) ([]byte, error)
}

// ClientConfig configures a Client.
type ClientConfig struct {
	BaseURL    string
	Timeout    time.Duration // per request; zero means none
	APIKey     string        // sent as X-API-Key when set
	HTTPClient *http.Client  // defaults to a client with Timeout
}

// Client is an HTTP JSON client for the backend.
type Client struct {
	base   *url.URL
	http   *http.Client
	apiKey string
}

// NewClient validates the base URL and builds a client.
func NewClient(cfg ClientConfig) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("parse backend URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("backend URL %q must be http or https", cfg.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("backend URL %q has no host", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{base: base, http: hc, apiKey: cfg.APIKey}, nil
}

// BaseURL returns the backend base URL.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Do sends req and returns the body of a 2xx response.
// Other statuses return a *StatusError.
func (c *Client) Do(ctx context.Context, req core.Request) ([]byte, error) {
	target, err := c.resolve(req)
	if err != nil {
		return nil, err
	}

	method := req.Method
	if method == "" {
		method = core.MethodGet
	}

	httpReq, err := http.NewRequestWithContext(ctx, string(method), target, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", req, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Code:    resp.StatusCode,
			Request: req,
			Body:    truncate(string(body), 512),
		}
	}
	return body, nil
}

// FetchRows sends req and decodes the body as rows.
func (c *Client) FetchRows(ctx context.Context, req core.Request) ([]core.Row, error) {
	body, err := c.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	rows, err := core.DecodeRows(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", req, err)
	}
	return rows, nil
}

// Fetcher returns a cache fetch function bound to req.
func (c *Client) Fetcher(req core.Request) func(context.Context) ([]core.Row, error) {
	return func(ctx context.Context) ([]core.Row, error) {
		return c.FetchRows(ctx, req)
	}
}

// resolve joins the request path onto the base URL and merges query params.
func (c *Client) resolve(req core.Request) (string, error) {
	if strings.TrimSpace(req.URL) == "" {
		return "", ErrEmptyURL
	}
	ref, err := url.Parse(req.URL)
	if err != nil {
		return "", fmt.Errorf("parse request URL %q: %w", req.URL, err)
	}

	u := *c.base
	if ref.IsAbs() {
		u = *ref
	} else {
		u.Path = strings.TrimSuffix(c.base.Path, "/") + "/" + strings.TrimPrefix(ref.Path, "/")
	}

	query := ref.Query()
	for key, values := range req.Params {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
