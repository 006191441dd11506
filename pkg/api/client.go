// Package api is the read side of the stats HTTP API used by the reports.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dkoosis/statsdash/pkg/query"
)

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 64 * 1024
)

// Params are the per-request extras appended to the query.
type Params struct {
	Limit int
}

// Getter is the single read operation reports depend on.
type Getter interface {
	Get(ctx context.Context, path string, q query.Query, p Params) ([]ListItem, error)
}

// APIError is returned when the API answers with a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("stats api: status %d", e.Status)
	}
	return fmt.Sprintf("stats api: status %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to a stats API rooted at a base URL.
type Client struct {
	baseURL        string
	http           *http.Client
	apiKey         string
	sharedLinkAuth string
	userAgent      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithAPIKey sends the key as a bearer token.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithSharedLinkAuth authenticates as a viewer of a shared dashboard link.
func WithSharedLinkAuth(auth string) Option {
	return func(c *Client) { c.sharedLinkAuth = auth }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout},
		userAgent: "statsdash",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get reads a list report from path, relative to the base URL.
// Transport and HTTP failures are returned as is; nothing is retried.
func (c *Client) Get(ctx context.Context, path string, q query.Query, p Params) ([]ListItem, error) {
	values := q.Values()
	if p.Limit > 0 {
		values.Set("limit", strconv.Itoa(p.Limit))
	}
	endpoint := c.baseURL + path + "?" + values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.sharedLinkAuth != "" {
		req.Header.Set("X-Shared-Link-Auth", c.sharedLinkAuth)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	slog.Debug("stats api request", "path", path, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, decodeError(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	items, err := decodeItems(body)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return items, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	if err != nil || len(body) == 0 {
		return apiErr
	}
	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// decodeItems accepts both a bare JSON array and {"results": [...]}.
func decodeItems(body []byte) ([]ListItem, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var items []ListItem
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}
	var wrapped struct {
		Results []ListItem `json:"results"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Results == nil {
		return []ListItem{}, nil
	}
	return wrapped.Results, nil
}
