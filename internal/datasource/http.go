// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package datasource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// DataSource fetches remote documents.
type DataSource interface {
	// FetchJSON decodes the JSON body at url into v.
	FetchJSON(ctx context.Context, url string, v any) error
	// FetchText returns the body at url.
	FetchText(ctx context.Context, url string) (string, error)
}

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected http status")

// Defaults for Options.
const (
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerMinute = 30
	DefaultMaxBodyBytes      = 4 << 20
	DefaultUserAgent         = "zonedash/1.0"
)

// Options configures an HTTP source.
type Options struct {
	Timeout           time.Duration
	RequestsPerMinute int
	MaxBodyBytes      int64
	UserAgent         string
	// Client overrides the HTTP client (tests).
	Client *http.Client
	// Logger receives one line per failed request. Nil uses log.Default().
	Logger *log.Logger
}

// HTTP is a rate-limited DataSource over net/http.
type HTTP struct {
	client    *http.Client
	limiter   *rate.Limiter
	maxBytes  int64
	userAgent string
	logger    *log.Logger
}

// NewHTTP returns an HTTP source, filling unset options with defaults.
func NewHTTP(opts Options) *HTTP {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.RequestsPerMinute <= 0 {
		opts.RequestsPerMinute = DefaultRequestsPerMinute
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	perSecond := rate.Limit(float64(opts.RequestsPerMinute) / 60)
	burst := opts.RequestsPerMinute / 10
	if burst < 1 {
		burst = 1
	}

	return &HTTP{
		client:    client,
		limiter:   rate.NewLimiter(perSecond, burst),
		maxBytes:  opts.MaxBodyBytes,
		userAgent: opts.UserAgent,
		logger:    logger,
	}
}

// FetchText performs a GET and returns the body.
func (h *HTTP) FetchText(ctx context.Context, url string) (string, error) {
	body, err := h.get(ctx, url, "text/plain, */*")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchJSON performs a GET and decodes the body into v.
func (h *HTTP) FetchJSON(ctx context.Context, url string, v any) error {
	body, err := h.get(ctx, url, "application/json")
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		h.logger.Printf("datasource: decode %s: %v", url, err)
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

func (h *HTTP) get(ctx context.Context, url, accept string) ([]byte, error) {
	if err := ValidateURL(url); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	if err := h.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Printf("datasource: GET %s: %v", url, err)
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		h.logger.Printf("datasource: GET %s: status %d", url, resp.StatusCode)
		return nil, fmt.Errorf("fetch %s: %w: %d", url, ErrStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	return body, nil
}
