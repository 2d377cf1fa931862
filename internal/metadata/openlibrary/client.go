// Package openlibrary provides a client for the Open Library books API,
// the secondary bibliographic source. It only ever supplies title and
// author; synopsis and genre are outside what this source offers reliably.
package openlibrary

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://openlibrary.org/api/books"
	defaultTimeout = 5 * time.Second
)

// Sentinel errors for Open Library API operations.
var (
	ErrNotFound = errors.New("openlibrary: no matching record")
	ErrServer   = errors.New("openlibrary: server error")
)

// Client is a rate-limited Open Library client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	baseURL string
	logger  *slog.Logger
}

// New creates a new Open Library client.
func New(logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(1), 3),
		baseURL: defaultBaseURL,
		logger:  logger,
	}
}

// Record holds the fields Open Library contributes.
type Record struct {
	Title  string `json:"title"`
	Author string `json:"author"`
}

// ByISBN looks up a record by ISBN. Returns ErrNotFound when Open Library
// has no matching edition.
func (c *Client) ByISBN(ctx context.Context, isbn string) (*Record, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	bibkey := "ISBN:" + isbn
	params := url.Values{}
	params.Set("bibkeys", bibkey)
	params.Set("format", "json")
	params.Set("jscmd", "data")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Acervo/1.0")

	c.logger.Debug("open library request", "isbn", isbn)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, ErrServer
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var raw map[string]rawRecord
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	rec, ok := raw[bibkey]
	if !ok || rec.Title == "" {
		return nil, ErrNotFound
	}

	names := make([]string, 0, len(rec.Authors))
	for _, a := range rec.Authors {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	return &Record{
		Title:  rec.Title,
		Author: strings.Join(names, ", "),
	}, nil
}

// Raw API response types (internal)

type rawRecord struct {
	Title   string      `json:"title"`
	Authors []rawAuthor `json:"authors"`
}

type rawAuthor struct {
	Name string `json:"name"`
}
