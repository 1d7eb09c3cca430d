// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Configuration constants for the analysis backend.
const (
	// DefaultTimeout bounds a single request. Analysis stages can take a
	// while server-side, so this is generous.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB

	// defaultRequestsPerSecond is the client-side rate cap. The backend
	// fans each call out to paid search/LLM services; the limiter keeps a
	// misbehaving UI loop from burning quota.
	defaultRequestsPerSecond = 2
	defaultBurst             = 4
)

// PERFORMANCE: Connection pooling reduces TCP handshake overhead.
// Shared HTTP client for all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend failures.
var (
	// ErrNotConfigured indicates the backend base URL is not set.
	ErrNotConfigured = errors.New("analysis backend not configured")

	// ErrBadRequest indicates the backend rejected the request payload.
	ErrBadRequest = errors.New("bad request")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrServer indicates a backend-side failure (5xx).
	ErrServer = errors.New("backend error")

	// ErrUnavailable indicates the backend could not be reached.
	ErrUnavailable = errors.New("backend unreachable")
)

// APIError carries the endpoint, HTTP status, and a snippet of the body for
// a failed call. It wraps one of the sentinel errors above.
type APIError struct {
	Endpoint string
	Status   int
	Message  string
	sentinel error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Endpoint, e.Status, e.Message)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Endpoint, e.Status)
}

// Unwrap exposes the sentinel so errors.Is works on wrapped failures.
func (e *APIError) Unwrap() error { return e.sentinel }

// errorBody is the FastAPI-style error envelope the backend returns.
type errorBody struct {
	Detail string `json:"detail"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the analysis backend. Construct with NewClient and
// configure with the With* methods before first use; the client is safe for
// concurrent use afterwards.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
}

// NewClient creates a client for the given backend base URL. An empty URL
// yields a client whose calls fail with ErrNotConfigured.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		httpClient: sharedHTTPClient,
		limiter:    rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), defaultBurst),
		userAgent:  "vcscope/0.1.0",
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	// Copy the shared transport; only the timeout differs.
	client := *c.httpClient
	client.Timeout = timeout
	c.httpClient = &client
	return c
}

// WithRateLimit overrides the client-side request rate cap.
func (c *Client) WithRateLimit(perSecond float64, burst int) *Client {
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	return c
}

// WithHTTPClient substitutes the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured reports whether a base URL is set.
func (c *Client) IsConfigured() bool { return c.baseURL != "" }

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// postJSON marshals in, POSTs it to path, and unmarshals the 2xx response
// into out. Non-2xx statuses come back as *APIError wrapping a sentinel.
// There is no retry here: every failed call is surfaced once, and a rerun
// takes a fresh user action.
func (c *Client) postJSON(ctx context.Context, path string, in, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	bodyBytes, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.handleErrorResponse(path, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return nil
}

// readResponse reads the body with a size cap.
// SECURITY: Response size limit prevents memory exhaustion.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) == MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", int64(MaxResponseSize))
	}
	return body, nil
}

// handleErrorResponse maps an HTTP failure onto the error taxonomy.
func (c *Client) handleErrorResponse(path string, status int, body []byte) error {
	msg := ""
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Detail != "" {
		msg = eb.Detail
	} else if len(body) > 0 {
		msg = string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}

	apiErr := &APIError{Endpoint: path, Status: status, Message: msg}
	switch {
	case status == http.StatusTooManyRequests:
		apiErr.sentinel = ErrRateLimited
	case status >= 500:
		apiErr.sentinel = ErrServer
	default:
		apiErr.sentinel = ErrBadRequest
	}
	return apiErr
}
