// Package googlebooks provides a client for the Google Books volumes API,
// the primary bibliographic source for catalog resolution.
package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

	// Lookups sit on the check-in path; a slow upstream must not stall the
	// desk, so the timeout is short.
	defaultTimeout = 5 * time.Second
)

// Client is a rate-limited Google Books API client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// New creates a new Google Books client.
// Rate limited to 1 request per second with a small burst.
func New(apiKey string, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Volume is the subset of volume metadata the catalog uses.
type Volume struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}

// VolumeByISBN looks up a volume by exact ISBN.
// Returns ErrNotFound when the API has no matching volume.
func (c *Client) VolumeByISBN(ctx context.Context, isbn string) (*Volume, error) {
	return c.query(ctx, "isbn:"+isbn)
}

// VolumeByTitle looks up a volume by title text, used by the curation pass
// for entries whose code lookup came up empty.
func (c *Client) VolumeByTitle(ctx context.Context, title string) (*Volume, error) {
	return c.query(ctx, "intitle:"+title)
}

func (c *Client) query(ctx context.Context, q string) (*Volume, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("maxResults", "1")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Acervo/1.0")

	c.logger.Debug("google books request", "query", q)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to parse
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw volumesResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if len(raw.Items) == 0 {
		return nil, ErrNotFound
	}

	info := raw.Items[0].VolumeInfo
	return &Volume{
		Title:       info.Title,
		Authors:     info.Authors,
		Description: cleanDescription(info.Description),
		Categories:  info.Categories,
	}, nil
}

// Raw API response types (internal)

type volumesResponse struct {
	TotalItems int       `json:"totalItems"`
	Items      []rawItem `json:"items"`
}

type rawItem struct {
	VolumeInfo rawVolumeInfo `json:"volumeInfo"`
}

type rawVolumeInfo struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Categories  []string `json:"categories"`
}
