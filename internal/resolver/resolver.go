// Package resolver runs the bibliographic resolution cascade: an ordered
// list of sources tried until the pending fields of an entry are filled.
// A source that fails or knows nothing simply contributes nothing; the
// cascade itself never returns an error.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/acervoapp/acervo-server/internal/domain"
)

// Query carries the keys a step may resolve by. Code is a normalized
// catalog code; Title and Author are whatever the caller already knows.
type Query struct {
	Code   string
	Title  string
	Author string
}

// Contribution records which source produced which fields, for audit
// logging and for the curation report.
type Contribution struct {
	Source string                `json:"source"`
	Fields domain.ResolvedFields `json:"fields"`
}

// Step is one source in the cascade.
//
// Lookup returns the fields the source could resolve. ErrNoMatch (or any
// error wrapping it) means the source has no record for the query and the
// cascade moves on quietly; any other error is logged and also skipped.
type Step interface {
	Name() string
	Lookup(ctx context.Context, q Query) (domain.ResolvedFields, error)
}

// ErrNoMatch is returned by a step that has no record for the query.
var ErrNoMatch = errors.New("resolver: no match")

// Resolver runs steps in order, merging each contribution into the
// accumulated result without overwriting fields an earlier step resolved.
type Resolver struct {
	steps  []Step
	logger *slog.Logger
}

// New creates a resolver over the given steps, tried in order.
func New(logger *slog.Logger, steps ...Step) *Resolver {
	return &Resolver{
		steps:  steps,
		logger: logger,
	}
}

// Resolve runs the cascade. Later steps fill fields still missing or not
// yet good enough; the cascade stops early once every field is resolved.
// The returned contributions list one entry per step that produced
// something.
func (r *Resolver) Resolve(ctx context.Context, q Query) (domain.ResolvedFields, []Contribution) {
	var (
		result        domain.ResolvedFields
		contributions []Contribution
	)

	for _, step := range r.steps {
		if complete(result) {
			break
		}
		if err := ctx.Err(); err != nil {
			r.logger.Warn("resolution cascade cancelled", "source", step.Name(), "error", err)
			break
		}

		fields, err := step.Lookup(ctx, q)
		if err != nil {
			if errors.Is(err, ErrNoMatch) {
				r.logger.Debug("source has no match", "source", step.Name(), "code", q.Code)
			} else {
				r.logger.Warn("source lookup failed", "source", step.Name(), "code", q.Code, "error", err)
			}
			continue
		}

		applied := merge(&result, fields)
		if applied == (domain.ResolvedFields{}) {
			continue
		}
		contributions = append(contributions, Contribution{
			Source: step.Name(),
			Fields: applied,
		})

		// A resolved step may hand later steps a better query.
		if q.Title == "" {
			q.Title = result.Title
		}
		if q.Author == "" && result.Author != domain.PendingField {
			q.Author = result.Author
		}
	}

	return result, contributions
}

// merge fills empty fields of dst from src and returns exactly the fields
// that were applied. Two fields can be upgraded rather than only filled: a
// synopsis below the minimum length yields to a longer one, and the default
// genre yields to a real one. Both mirror why the cascade kept running past
// the earlier step at all.
func merge(dst *domain.ResolvedFields, src domain.ResolvedFields) domain.ResolvedFields {
	var applied domain.ResolvedFields
	if dst.Title == "" && src.Title != "" {
		dst.Title = src.Title
		applied.Title = src.Title
	}
	if dst.Author == "" && src.Author != "" {
		dst.Author = src.Author
		applied.Author = src.Author
	}
	if src.Synopsis != "" && synopsisImproves(dst.Synopsis, src.Synopsis) {
		dst.Synopsis = src.Synopsis
		applied.Synopsis = src.Synopsis
	}
	if (dst.Genre == "" || dst.Genre == domain.DefaultGenre) && src.Genre != "" && src.Genre != domain.DefaultGenre {
		dst.Genre = src.Genre
		applied.Genre = src.Genre
	}
	return applied
}

// synopsisImproves reports whether incoming should replace current: current
// is empty, or still below the minimum length and incoming is longer.
func synopsisImproves(current, incoming string) bool {
	if current == "" {
		return true
	}
	cur := utf8.RuneCountInString(current)
	return cur < domain.MinSynopsisLen && utf8.RuneCountInString(incoming) > cur
}

func complete(f domain.ResolvedFields) bool {
	return f.Title != "" && f.Author != "" &&
		utf8.RuneCountInString(f.Synopsis) >= domain.MinSynopsisLen &&
		f.Genre != "" && f.Genre != domain.DefaultGenre
}

// JoinAuthors renders a source's author list the way the catalog stores
// authors: a single comma-separated string.
func JoinAuthors(authors []string) string {
	return strings.Join(authors, ", ")
}
