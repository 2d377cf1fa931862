// Package gemini provides the generative-inference fallback for the
// curation cascade. It is the last resort after every bibliographic source
// has been tried: the model is given a title (and any known author) and
// asked for an author, short synopsis, and genre as a ';'-delimited triple.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"google.golang.org/genai"
)

const (
	defaultModel = "gemini-2.0-flash"

	// Inference calls get a slightly longer leash than plain lookups but
	// must still be bounded; a stalled model call is a failed cascade step.
	defaultTimeout = 10 * time.Second
)

// ErrBadResponse means the model did not return the expected
// author;synopsis;genre triple. The response is discarded.
var ErrBadResponse = errors.New("gemini: response is not an author;synopsis;genre triple")

// Suggestion is the parsed model output.
type Suggestion struct {
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
}

// Client wraps the Gemini API for catalog curation.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient creates a Gemini client. An empty model selects the default.
func NewClient(ctx context.Context, apiKey, model string, logger *slog.Logger) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		client:  client,
		model:   model,
		timeout: defaultTimeout,
		logger:  logger,
	}, nil
}

// Suggest asks the model for the missing fields of a title.
func (c *Client) Suggest(ctx context.Context, title, knownAuthor string) (*Suggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := buildPrompt(title, knownAuthor)

	c.logger.Debug("gemini request", "model", c.model, "title", title)

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), nil)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	return parseSuggestion(resp.Text())
}

// buildPrompt mirrors the fixed curation prompt: answer only with
// author, short synopsis, and genre, ';' separated.
func buildPrompt(title, knownAuthor string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Livro: %s.", title)
	if knownAuthor != "" {
		fmt.Fprintf(&b, " Autor conhecido: %s.", knownAuthor)
	}
	b.WriteString(" Responda apenas: Autor; Sinopse Curta; Gênero. Use ';' como separador.")
	return b.String()
}

// parseSuggestion splits the model output on the fixed delimiter. Fewer
// than three parts means the response shape is wrong and it is discarded.
// Extra delimiters inside the synopsis fold into the genre-side remainder,
// so only the first two splits are taken literally.
func parseSuggestion(text string) (*Suggestion, error) {
	parts := strings.Split(text, ";")
	if len(parts) < 3 {
		return nil, ErrBadResponse
	}

	s := &Suggestion{
		Author:   strings.TrimSpace(parts[0]),
		Synopsis: strings.TrimSpace(parts[1]),
		Genre:    capitalize(strings.TrimSpace(strings.Join(parts[2:], ";"))),
	}
	if s.Author == "" && s.Synopsis == "" {
		return nil, ErrBadResponse
	}
	return s, nil
}

// capitalize upper-cases the first rune, matching how genres are stored.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
