// Package store defines the persistence contract for the catalog, patrons,
// and loans. The catalog store exclusively owns CatalogEntry and LoanRecord
// rows: services mutate quantity and loan status only through the atomic
// operations below, never by direct field writes.
package store

import (
	"context"
	"time"

	"github.com/acervoapp/acervo-server/internal/domain"
)

// CatalogStore persists catalog entries.
type CatalogStore interface {
	// GetEntryByCode is an exact-match lookup. Returns errors.ErrNotFound
	// when the code is absent; no partial matching.
	GetEntryByCode(ctx context.Context, code string) (*domain.CatalogEntry, error)

	// CreateEntry inserts a new entry. Returns errors.ErrDuplicateCode when
	// the code already exists. Callers generate a synthetic code before
	// insertion when none is known; an empty code is rejected.
	CreateEntry(ctx context.Context, e *domain.CatalogEntry) error

	// UpdateEntry is a full-field manual correction. The only invariant kept
	// is non-negative quantity.
	UpdateEntry(ctx context.Context, e *domain.CatalogEntry) error

	// AdjustQuantity atomically adds delta to the entry's stock. Returns
	// errors.ErrNegativeStock when the result would be negative; the row is
	// untouched in that case.
	AdjustQuantity(ctx context.Context, code string, delta int) error

	// ListEntries returns the whole catalog ordered by title.
	ListEntries(ctx context.Context) ([]*domain.CatalogEntry, error)

	// SearchEntries filters by title or code substring, case-insensitively.
	SearchEntries(ctx context.Context, term string) ([]*domain.CatalogEntry, error)

	// ListGenres returns the distinct genres present in the catalog.
	ListGenres(ctx context.Context) ([]string, error)

	// ListEntriesNeedingCuration returns entries whose author or synopsis is
	// still the Pending sentinel.
	ListEntriesNeedingCuration(ctx context.Context) ([]*domain.CatalogEntry, error)
}

// LoanStore persists loan records coupled to stock mutation.
type LoanStore interface {
	// CreateLoan decrements the entry's stock and inserts the loan as one
	// atomic unit. When stock is zero it returns errors.ErrOutOfStock and
	// writes nothing. Two concurrent calls against a single remaining copy
	// yield exactly one success.
	CreateLoan(ctx context.Context, loan *domain.LoanRecord) error

	// ReturnLoan transitions the loan to Returned and restores one copy of
	// stock, atomically. Returns errors.ErrInvalidTransition when the loan
	// is not Active.
	ReturnLoan(ctx context.Context, loanID string, returnedAt time.Time) error

	// GetLoan fetches a loan by ID.
	GetLoan(ctx context.Context, loanID string) (*domain.LoanRecord, error)

	// ListActiveLoans returns active loans joined with entry title and
	// patron name, for the return desk.
	ListActiveLoans(ctx context.Context) ([]*domain.ActiveLoanView, error)
}

// PatronStore persists patrons.
type PatronStore interface {
	// SyncPatrons reconciles the stored patron list against the supplied
	// one: new patrons are inserted, changed ones updated in place, and
	// stored patrons absent from the list removed. Identity is the patron
	// ID when supplied, otherwise name+group. Runs in one transaction and
	// returns the resulting list.
	SyncPatrons(ctx context.Context, patrons []*domain.Patron) ([]*domain.Patron, error)

	// ListPatrons returns all patrons ordered by name.
	ListPatrons(ctx context.Context) ([]*domain.Patron, error)

	// GetPatron fetches a patron by ID.
	GetPatron(ctx context.Context, id string) (*domain.Patron, error)
}

// Store is the full persistence surface consumed by the service layer.
type Store interface {
	CatalogStore
	LoanStore
	PatronStore

	Close() error
}
