// Package rest reads table schemas, type catalogs and rows from a JSON HTTP
// API laid out as <base>/<item>/tableinfo, <base>/<item>/types and
// <base>/<item>.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-tablegen/pkg/model"
	"github.com/goliatone/go-tablegen/pkg/source"
)

// DefaultTimeout bounds a request when the client has no timeout of its own.
const DefaultTimeout = 30 * time.Second

// DefaultMaxResponseBytes caps the body read from any endpoint. Larger
// responses fail instead of being buffered.
const DefaultMaxResponseBytes int64 = 32 << 20

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. The client is copied.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			clone := *client
			c.http = &clone
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithMaxResponseBytes overrides DefaultMaxResponseBytes. Values below one
// are ignored.
func WithMaxResponseBytes(limit int64) Option {
	return func(c *Client) {
		if limit > 0 {
			c.maxBytes = limit
		}
	}
}

// WithHeader adds a header to every request, e.g. an auth token.
func WithHeader(name, value string) Option {
	return func(c *Client) {
		c.headers.Set(name, value)
	}
}

// WithLogger routes request logs to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client is a source.Source backed by an HTTP JSON API.
type Client struct {
	base     *url.URL
	item     string
	http     *http.Client
	timeout  time.Duration
	maxBytes int64
	headers  http.Header
	logger   *slog.Logger
}

var _ source.Source = (*Client)(nil)

// New builds a Client for item under baseURL.
func New(baseURL, item string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("rest: base url is required")
	}
	item = strings.Trim(strings.TrimSpace(item), "/")
	if item == "" {
		return nil, errors.New("rest: item is required")
	}
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("rest: parse base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("rest: unsupported scheme %q", base.Scheme)
	}

	c := &Client{
		base:     base,
		item:     item,
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		maxBytes: DefaultMaxResponseBytes,
		headers:  http.Header{"Accept": []string{"application/json"}},
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// TableInfo fetches <base>/<item>/tableinfo.
func (c *Client) TableInfo(ctx context.Context) (model.TableInfo, error) {
	var info model.TableInfo
	if err := c.getJSON(ctx, c.endpoint("tableinfo"), &info); err != nil {
		return model.TableInfo{}, err
	}
	return info, nil
}

// Types fetches <base>/<item>/types.
func (c *Client) Types(ctx context.Context) ([]model.TypeInfo, error) {
	var types []model.TypeInfo
	if err := c.getJSON(ctx, c.endpoint("types"), &types); err != nil {
		return nil, err
	}
	return types, nil
}

// Rows fetches <base>/<item>. Numbers decode as json.Number so ids and
// timestamps keep their exact text.
func (c *Client) Rows(ctx context.Context) ([]model.Row, error) {
	var rows []model.Row
	if err := c.getJSON(ctx, c.endpoint(), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) endpoint(parts ...string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + url.PathEscape(c.item)
	for _, part := range parts {
		u.Path += "/" + part
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, target string, out any) error {
	data, err := c.get(ctx, target)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("rest: decode %s: %w", target, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, target string) ([]byte, error) {
	reqCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("rest: build request: %w", err)
	}
	for name, values := range c.headers {
		for _, value := range values {
			req.Header.Add(name, value)
		}
	}

	c.logger.Debug("rest request", slog.String("url", target))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rest: get %s: %w", target, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("rest: get %s: unexpected status %s", target, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("rest: read %s: %w", target, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("rest: read %s: response exceeds %d bytes", target, c.maxBytes)
	}
	return data, nil
}
