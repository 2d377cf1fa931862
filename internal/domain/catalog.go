// Package domain contains the core business entities and domain logic for the Acervo catalog.
package domain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/acervoapp/acervo-server/internal/errors"
)

// Field sentinels. A field holding PendingField has not been resolved yet and
// is eligible for backfill by the curation cascade.
const (
	PendingField = "Pending"
	DefaultGenre = "Geral"
)

// MinSynopsisLen is the shortest synopsis, in characters, the curation
// pass considers resolved. Anything shorter is re-queried as if it were
// pending.
const MinSynopsisLen = 30

// CatalogEntry represents one cataloged title.
//
// Code is the unique key: usually a real ISBN, sometimes a synthetic
// placeholder generated at import time when no ISBN is known.
// Quantity is the number of copies currently available for loan and is
// never negative.
type CatalogEntry struct {
	Code      string    `json:"code"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Synopsis  string    `json:"synopsis"`
	Genre     string    `json:"genre"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCatalogEntry creates an entry with pending defaults applied.
func NewCatalogEntry(code, title string) *CatalogEntry {
	now := time.Now().UTC()
	return &CatalogEntry{
		Code:      code,
		Title:     title,
		Author:    PendingField,
		Synopsis:  PendingField,
		Genre:     DefaultGenre,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Validate checks the entry invariants before persistence.
func (e *CatalogEntry) Validate() error {
	if strings.TrimSpace(e.Code) == "" {
		return errors.Validation("catalog code is required")
	}
	if strings.TrimSpace(e.Title) == "" {
		return errors.Validation("title is required")
	}
	if e.Quantity < 0 {
		return errors.NegativeStock("quantity cannot be negative")
	}
	return nil
}

// ApplyDefaults replaces empty metadata fields with their sentinels.
func (e *CatalogEntry) ApplyDefaults() {
	if strings.TrimSpace(e.Author) == "" {
		e.Author = PendingField
	}
	if strings.TrimSpace(e.Synopsis) == "" {
		e.Synopsis = PendingField
	}
	if strings.TrimSpace(e.Genre) == "" {
		e.Genre = DefaultGenre
	}
}

// NeedsCuration reports whether the entry still has unresolved metadata:
// a pending author, a pending synopsis, or a synopsis too short to be
// trusted.
func (e *CatalogEntry) NeedsCuration() bool {
	if e.Author == PendingField || e.Synopsis == PendingField {
		return true
	}
	// Runes, not bytes: the store's scan uses SQL length(), which counts
	// characters, and accented Portuguese text diverges between the two.
	return utf8.RuneCountInString(e.Synopsis) < MinSynopsisLen
}

// ResolvedFields is the output of the bibliographic cascade. Empty strings
// mean "no source contributed"; callers keep sentinels for those.
type ResolvedFields struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
}

// HasTitle reports whether the cascade produced a usable title.
func (f ResolvedFields) HasTitle() bool {
	return strings.TrimSpace(f.Title) != ""
}

// Merge fills the entry's pending fields from the resolved set. A field
// already holding a real value is never overwritten.
func (f ResolvedFields) Merge(e *CatalogEntry) {
	if e.Title == "" && f.Title != "" {
		e.Title = f.Title
	}
	if (e.Author == "" || e.Author == PendingField) && f.Author != "" {
		e.Author = f.Author
	}
	if (e.Synopsis == "" || e.Synopsis == PendingField) && f.Synopsis != "" {
		e.Synopsis = f.Synopsis
	}
	if (e.Genre == "" || e.Genre == DefaultGenre) && f.Genre != "" {
		e.Genre = f.Genre
	}
}

// CheckInAction describes the outcome of a check-in request.
type CheckInAction string

const (
	// ActionRestocked means the code already existed and its stock was increased.
	ActionRestocked CheckInAction = "Restocked"
	// ActionCreated means a new entry was resolved and inserted.
	ActionCreated CheckInAction = "Created"
	// ActionNeedsManualEntry means nothing usable was resolved and the caller
	// must supply fields manually. Not an error.
	ActionNeedsManualEntry CheckInAction = "NeedsManualEntry"
)

// ImportRow is one spreadsheet row from a bulk import.
// Quantity is always treated as one copy per row.
type ImportRow struct {
	Code     string `json:"code"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
}

// ToEntry converts the row to a catalog entry with one copy and sentinel
// defaults for the metadata it lacks.
func (r ImportRow) ToEntry() *CatalogEntry {
	e := NewCatalogEntry(r.Code, strings.TrimSpace(r.Title))
	if strings.TrimSpace(r.Author) != "" {
		e.Author = strings.TrimSpace(r.Author)
	}
	if strings.TrimSpace(r.Synopsis) != "" {
		e.Synopsis = strings.TrimSpace(r.Synopsis)
	}
	if strings.TrimSpace(r.Genre) != "" {
		e.Genre = strings.TrimSpace(r.Genre)
	}
	e.Quantity = 1
	return e
}
