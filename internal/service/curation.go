package service

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/resolver"
	"github.com/acervoapp/acervo-server/internal/store"
)

// CurationService backfills pending metadata across the catalog. It runs a
// title-based cascade, since entries reach curation precisely because their
// code lookups came up empty at check-in.
type CurationService struct {
	store    store.CatalogStore
	resolver Resolver
	logger   *slog.Logger
}

// NewCurationService creates a new curation service.
func NewCurationService(store store.CatalogStore, r Resolver, logger *slog.Logger) *CurationService {
	return &CurationService{
		store:    store,
		resolver: r,
		logger:   logger,
	}
}

// CurationReport summarizes one curation run.
type CurationReport struct {
	Scanned   int      `json:"scanned"`
	Updated   int      `json:"updated"`
	Unchanged int      `json:"unchanged"`
	Failed    int      `json:"failed"`
	Codes     []string `json:"updated_codes,omitempty"`
}

// Run scans entries with pending metadata and fills what it can resolve.
// Per-entry failures are logged and skipped so one bad record never stops
// the sweep; cancellation aborts between entries.
func (s *CurationService) Run(ctx context.Context) (*CurationReport, error) {
	pending, err := s.store.ListEntriesNeedingCuration(ctx)
	if err != nil {
		return nil, err
	}

	report := &CurationReport{Scanned: len(pending)}
	for _, entry := range pending {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		fields, contributions := s.resolver.Resolve(ctx, resolver.Query{
			Code:   entry.Code,
			Title:  entry.Title,
			Author: knownAuthor(entry),
		})

		if !applyCuration(entry, fields) {
			report.Unchanged++
			continue
		}

		if err := s.store.UpdateEntry(ctx, entry); err != nil {
			s.logger.Warn("curation update failed", "code", entry.Code, "error", err)
			report.Failed++
			continue
		}

		s.logger.Info("entry curated",
			"code", entry.Code,
			"title", entry.Title,
			"sources", len(contributions))
		report.Updated++
		report.Codes = append(report.Codes, entry.Code)
	}

	return report, nil
}

// knownAuthor returns the entry's author if it is a real value, for use as
// a query hint.
func knownAuthor(e *domain.CatalogEntry) string {
	if e.Author == domain.PendingField {
		return ""
	}
	return e.Author
}

// applyCuration merges curated fields into the entry and reports whether
// anything changed. The author is only filled while pending; the synopsis
// is replaced while pending or too short to trust; the genre only while it
// still carries the default.
func applyCuration(e *domain.CatalogEntry, f domain.ResolvedFields) bool {
	changed := false
	if e.Author == domain.PendingField && f.Author != "" {
		e.Author = f.Author
		changed = true
	}
	synopsisWeak := e.Synopsis == domain.PendingField ||
		utf8.RuneCountInString(e.Synopsis) < domain.MinSynopsisLen
	if synopsisWeak && f.Synopsis != "" && f.Synopsis != e.Synopsis {
		e.Synopsis = f.Synopsis
		changed = true
	}
	if e.Genre == domain.DefaultGenre && f.Genre != "" && f.Genre != domain.DefaultGenre {
		e.Genre = f.Genre
		changed = true
	}
	return changed
}
