// Package importer handles bulk catalog imports from scanned spreadsheets.
// Rows are classified against the existing catalog before anything is
// written: a row whose code or title is already on the shelf is a conflict
// and is only inserted when the operator forces it.
package importer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
	"github.com/acervoapp/acervo-server/internal/id"
	"github.com/acervoapp/acervo-server/internal/normalize"
	"github.com/acervoapp/acervo-server/internal/store"
)

// Conflict pairs a rejected row with the entry it collided with.
type Conflict struct {
	Row      domain.ImportRow `json:"row"`
	Existing string           `json:"existing_code"`
	Reason   string           `json:"reason"`
}

// Report is the outcome of classifying a batch of rows.
type Report struct {
	Novel       []domain.ImportRow `json:"novel"`
	Conflicting []Conflict         `json:"conflicting"`
}

// Importer classifies and commits spreadsheet rows.
type Importer struct {
	catalog store.CatalogStore
	logger  *slog.Logger
}

// New creates an importer over the catalog store.
func New(catalog store.CatalogStore, logger *slog.Logger) *Importer {
	return &Importer{
		catalog: catalog,
		logger:  logger,
	}
}

// Classify splits rows into novel and conflicting against the current
// catalog. A row conflicts when its normalized code exactly matches an
// existing code, or its title matches an existing title ignoring case.
// Rows without a usable title are dropped silently.
func (im *Importer) Classify(ctx context.Context, rows []domain.ImportRow) (*Report, error) {
	existing, err := im.catalog.ListEntries(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog for classification")
	}

	byCode := make(map[string]string, len(existing))
	byTitle := make(map[string]string, len(existing))
	for _, e := range existing {
		byCode[e.Code] = e.Code
		byTitle[normalize.Title(e.Title)] = e.Code
	}

	report := &Report{}
	for _, row := range rows {
		row.Title = strings.TrimSpace(row.Title)
		if row.Title == "" {
			continue
		}
		if code, err := normalize.Code(row.Code); err == nil {
			row.Code = code
		} else {
			row.Code = ""
		}

		switch {
		case row.Code != "" && byCode[row.Code] != "":
			report.Conflicting = append(report.Conflicting, Conflict{
				Row:      row,
				Existing: byCode[row.Code],
				Reason:   "code already cataloged",
			})
		case byTitle[normalize.Title(row.Title)] != "":
			report.Conflicting = append(report.Conflicting, Conflict{
				Row:      row,
				Existing: byTitle[normalize.Title(row.Title)],
				Reason:   "title already cataloged",
			})
		default:
			report.Novel = append(report.Novel, row)
		}
	}

	im.logger.Info("import batch classified",
		"total", len(rows),
		"novel", len(report.Novel),
		"conflicting", len(report.Conflicting))

	return report, nil
}

// CommitResult summarizes a committed batch.
type CommitResult struct {
	Inserted int      `json:"inserted"`
	Skipped  int      `json:"skipped"`
	Codes    []string `json:"codes"`
}

// Commit inserts rows as one-copy entries. Without force, rows that
// classify as conflicting are skipped; with force they are inserted
// anyway, getting a synthetic code if their own code is already taken.
// Rows lacking a code always receive a synthetic one.
func (im *Importer) Commit(ctx context.Context, rows []domain.ImportRow, force bool) (*CommitResult, error) {
	report, err := im.Classify(ctx, rows)
	if err != nil {
		return nil, err
	}

	insert := report.Novel
	skipped := len(report.Conflicting)
	if force {
		for _, c := range report.Conflicting {
			insert = append(insert, c.Row)
		}
		skipped = 0
	}

	result := &CommitResult{}
	for _, row := range insert {
		entry := row.ToEntry()
		if entry.Code == "" {
			entry.Code = id.MustSyntheticCode()
		}
		entry.ApplyDefaults()

		if err := im.catalog.CreateEntry(ctx, entry); err != nil {
			if errors.Is(err, errors.ErrDuplicateCode) && force {
				// Forced duplicate: shelve it as a distinct record.
				entry.Code = id.MustSyntheticCode()
				if err := im.catalog.CreateEntry(ctx, entry); err != nil {
					return result, errors.Wrap(err, "insert forced row")
				}
			} else {
				return result, errors.Wrap(err, "insert imported row")
			}
		}
		result.Inserted++
		result.Codes = append(result.Codes, entry.Code)
	}
	result.Skipped = skipped

	im.logger.Info("import batch committed",
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"forced", force)

	return result, nil
}
