// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jeranaias/vcscope-tui/internal/investor"
)

const (
	// DefaultTimeout bounds a single directory read.
	DefaultTimeout = 30 * time.Second

	// maxResponseSize caps directory responses.
	// SECURITY: Response size limit prevents memory exhaustion.
	maxResponseSize = 10 * 1024 * 1024
)

// Error variables for directory failures.
var (
	// ErrNotConfigured indicates the directory base URL is not set.
	ErrNotConfigured = errors.New("directory not configured")

	// ErrProfileNotFound indicates no profile matches the requested id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrUnavailable indicates the directory could not be reached.
	ErrUnavailable = errors.New("directory unreachable")
)

// DirectoryError wraps a directory failure with the operation that caused
// it.
type DirectoryError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *DirectoryError) Error() string {
	return fmt.Sprintf("directory %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *DirectoryError) Unwrap() error { return e.Err }

// Is supports errors.Is matching against the wrapped error.
func (e *DirectoryError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// =============================================================================
// PROFILE TYPE
// =============================================================================

// Profile is a personal profile record served by the directory.
type Profile struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Headline    string `json:"headline"`
	About       string `json:"about"`
	Email       string `json:"email"`
	LinkedInURL string `json:"linkedin_url"`
	ImageURL    string `json:"image_url"`
}

// =============================================================================
// CLIENT
// =============================================================================

// Client reads the hosted directory. Reads are anonymous-key authenticated;
// the client never writes.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cache      *Cache
}

// NewClient creates a directory client for the given base URL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// WithHTTPClient substitutes the underlying HTTP client. Used by tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithCache attaches a local read cache for the investor list.
func (c *Client) WithCache(cache *Cache) *Client {
	c.cache = cache
	return c
}

// IsConfigured reports whether a base URL is set.
func (c *Client) IsConfigured() bool { return c.baseURL != "" }

// =============================================================================
// READS
// =============================================================================

// List fetches all investors ordered by name ascending, the same ordering
// the detail view relies on. On success the result is mirrored into the
// cache when one is attached.
func (c *Client) List(ctx context.Context) ([]investor.Investor, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "name.asc")

	var list []investor.Investor
	if err := c.get(ctx, "/rest/v1/investors", q, &list); err != nil {
		return nil, &DirectoryError{Op: "list investors", Err: err}
	}

	// The service orders server-side; re-applying locally keeps cached and
	// fresh reads consistent.
	investor.SortByName(list)

	if c.cache != nil {
		// Cache write failure never fails the read.
		_ = c.cache.SaveInvestors(list)
	}
	return list, nil
}

// CachedList returns the last mirrored investor list, or ok=false when no
// cache is attached or it is empty.
func (c *Client) CachedList() ([]investor.Investor, bool) {
	if c.cache == nil {
		return nil, false
	}
	list, err := c.cache.LoadInvestors()
	if err != nil || len(list) == 0 {
		return nil, false
	}
	return list, true
}

// GetProfile fetches a personal profile by id. An empty result set maps to
// ErrProfileNotFound.
func (c *Client) GetProfile(ctx context.Context, id int) (*Profile, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", fmt.Sprintf("eq.%d", id))

	var rows []Profile
	if err := c.get(ctx, "/rest/v1/personalprofile", q, &rows); err != nil {
		return nil, &DirectoryError{Op: "get profile", Err: err}
	}
	if len(rows) == 0 {
		return nil, &DirectoryError{Op: "get profile", Err: ErrProfileNotFound}
	}
	return &rows[0], nil
}

// get performs one authenticated read and decodes the 2xx response.
func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := string(body)
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
