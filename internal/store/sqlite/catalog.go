package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
)

// entryColumns is the ordered list of columns selected in catalog queries.
// Must match the scan order in scanEntry.
const entryColumns = `code, title, author, synopsis, genre, quantity, created_at, updated_at`

// scanEntry scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.CatalogEntry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (*domain.CatalogEntry, error) {
	var e domain.CatalogEntry
	var createdAt, updatedAt string

	err := scanner.Scan(
		&e.Code,
		&e.Title,
		&e.Author,
		&e.Synopsis,
		&e.Genre,
		&e.Quantity,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	e.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

// GetEntryByCode retrieves an entry by its exact code.
// Returns errors.ErrNotFound if the code is absent.
func (s *Store) GetEntryByCode(ctx context.Context, code string) (*domain.CatalogEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries WHERE code = ?`, code)

	e, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no catalog entry with code %s", code)
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// CreateEntry inserts a new catalog entry.
// Returns errors.ErrDuplicateCode if the code already exists.
func (s *Store) CreateEntry(ctx context.Context, e *domain.CatalogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.ApplyDefaults()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO catalog_entries (code, title, author, synopsis, genre, quantity, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Code,
		e.Title,
		e.Author,
		e.Synopsis,
		e.Genre,
		e.Quantity,
		formatTime(e.CreatedAt),
		formatTime(e.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.DuplicateCodef("code %s already cataloged", e.Code)
		}
		return err
	}
	return nil
}

// UpdateEntry overwrites every field of an existing entry (manual correction).
// Returns errors.ErrNotFound if the code is absent.
func (s *Store) UpdateEntry(ctx context.Context, e *domain.CatalogEntry) error {
	if err := e.Validate(); err != nil {
		return err
	}
	e.ApplyDefaults()
	e.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_entries
		SET title = ?, author = ?, synopsis = ?, genre = ?, quantity = ?, updated_at = ?
		WHERE code = ?`,
		e.Title,
		e.Author,
		e.Synopsis,
		e.Genre,
		e.Quantity,
		formatTime(e.UpdatedAt),
		e.Code,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("no catalog entry with code %s", e.Code)
	}
	return nil
}

// AdjustQuantity atomically adds delta to an entry's stock. The guard on the
// UPDATE keeps the read-modify-write inside the database so a concurrent
// adjustment can never drive quantity below zero.
func (s *Store) AdjustQuantity(ctx context.Context, code string, delta int) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE catalog_entries
		SET quantity = quantity + ?, updated_at = ?
		WHERE code = ? AND quantity + ? >= 0`,
		delta, formatTime(time.Now()), code, delta,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, getErr := s.GetEntryByCode(ctx, code); getErr != nil {
			return getErr
		}
		return errors.NegativeStock("stock adjustment would make quantity negative")
	}
	return nil
}

// ListEntries returns every catalog entry ordered by title.
func (s *Store) ListEntries(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return s.queryEntries(ctx,
		`SELECT `+entryColumns+` FROM catalog_entries ORDER BY title COLLATE NOCASE`)
}

// SearchEntries filters entries by title or code substring, case-insensitively.
func (s *Store) SearchEntries(ctx context.Context, term string) ([]*domain.CatalogEntry, error) {
	if strings.TrimSpace(term) == "" {
		return s.ListEntries(ctx)
	}
	pattern := "%" + strings.TrimSpace(term) + "%"
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM catalog_entries
		WHERE title LIKE ? COLLATE NOCASE OR code LIKE ?
		ORDER BY title COLLATE NOCASE`,
		pattern, pattern)
}

// ListGenres returns the distinct genres present in the catalog.
func (s *Store) ListGenres(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT genre FROM catalog_entries ORDER BY genre COLLATE NOCASE`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var genres []string
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, err
		}
		genres = append(genres, g)
	}
	return genres, rows.Err()
}

// ListEntriesNeedingCuration returns entries whose author or synopsis still
// holds the Pending sentinel. Short synopses are filtered by the caller,
// which owns the length policy.
func (s *Store) ListEntriesNeedingCuration(ctx context.Context) ([]*domain.CatalogEntry, error) {
	return s.queryEntries(ctx, `
		SELECT `+entryColumns+` FROM catalog_entries
		WHERE author = ? OR synopsis = ? OR length(synopsis) < ?
		ORDER BY title COLLATE NOCASE`,
		domain.PendingField, domain.PendingField, domain.MinSynopsisLen)
}

func (s *Store) queryEntries(ctx context.Context, query string, args ...any) ([]*domain.CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.CatalogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
