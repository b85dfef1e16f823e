// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package content is the gateway to the remote content API that owns all
// posts and comments. It normalizes the API's response envelopes into
// model types and caches successful reads.
package content

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
	"strconv"
	"strings"
	"time"

	"github.com/olegiv/tenantblog/internal/cache"
	"github.com/olegiv/tenantblog/internal/model"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultListLimit = 100
	maxResponseBytes = 8 << 20
)

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	ListLimit int

	// Cache stores successful post reads. Nil disables caching.
	Cache    cache.Cacher
	CacheTTL time.Duration

	HTTPClient *http.Client
	UserAgent  string
	Logger     *slog.Logger
}

// Client talks to the content API. It is safe for concurrent use.
type Client struct {
	baseURL   string
	listLimit int
	http      *http.Client
	userAgent string
	logger    *slog.Logger

	postLists *cache.TypedCache[[]model.Post]
	posts     *cache.TypedCache[model.Post]
	purger    cache.PrefixDeleter
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid content API base URL %q", opts.BaseURL)
	}

	c := &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		listLimit: opts.ListLimit,
		http:      opts.HTTPClient,
		userAgent: opts.UserAgent,
		logger:    opts.Logger,
	}
	if c.listLimit <= 0 {
		c.listLimit = defaultListLimit
	}
	if c.http == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.http = &http.Client{Timeout: timeout}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if opts.Cache != nil {
		c.postLists = cache.NewTypedCache[[]model.Post](opts.Cache, opts.CacheTTL)
		c.posts = cache.NewTypedCache[model.Post](opts.Cache, opts.CacheTTL)
		c.purger, _ = opts.Cache.(cache.PrefixDeleter)
	}
	return c, nil
}

// BaseURL returns the API origin the client is bound to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping checks that the API answers. Any non-5xx response counts as healthy.
func (c *Client) Ping(ctx context.Context) error {
	q := url.Values{"limit": {"1"}}
	resp, err := c.do(ctx, http.MethodGet, "/api/blogs", q, nil, nil)
	if err != nil {
		return err
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return &APIError{StatusCode: resp.StatusCode}
	}
	return nil
}

// getJSON performs a GET and returns the body of a 2xx response.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.roundTrip(ctx, http.MethodGet, path, query, nil, nil)
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any, header http.Header) ([]byte, error) {
	resp, err := c.do(ctx, method, path, query, body, header)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, header http.Header) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	c.logger.LogAttrs(ctx, slog.LevelDebug, "content api request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)
	return resp, nil
}

// isCanceled reports whether err stems from the caller giving up.
func isCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

func itoa(n int) string { return strconv.Itoa(n) }
