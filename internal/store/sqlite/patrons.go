package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
	"github.com/acervoapp/acervo-server/internal/id"
)

const patronColumns = `id, name, grp, created_at, updated_at`

func scanPatron(scanner interface{ Scan(dest ...any) error }) (*domain.Patron, error) {
	var p domain.Patron
	var createdAt, updatedAt string

	err := scanner.Scan(&p.ID, &p.Name, &p.Group, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// SyncPatrons reconciles the stored patron list against the supplied one in
// a single transaction. Patrons keep their IDs across syncs: an incoming
// patron without an ID is matched by name+group before a new ID is minted,
// so loan foreign keys survive a full-list resave. Stored patrons absent
// from the incoming list are deleted unless they still hold an active loan.
func (s *Store) SyncPatrons(ctx context.Context, patrons []*domain.Patron) ([]*domain.Patron, error) {
	for _, p := range patrons {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	existing, err := queryPatrons(ctx, tx, `SELECT `+patronColumns+` FROM patrons`)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Patron, len(existing))
	byIdentity := make(map[string]*domain.Patron, len(existing))
	for _, p := range existing {
		byID[p.ID] = p
		byIdentity[p.Identity()] = p
	}

	now := time.Now().UTC()
	kept := make(map[string]bool, len(patrons))
	var result []*domain.Patron

	for _, incoming := range patrons {
		var current *domain.Patron
		if incoming.ID != "" {
			current = byID[incoming.ID]
		}
		if current == nil {
			current = byIdentity[incoming.Identity()]
		}

		switch {
		case current == nil:
			p := &domain.Patron{
				ID:        id.MustGenerate(id.PrefixPatron),
				Name:      incoming.Name,
				Group:     incoming.Group,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO patrons (id, name, grp, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?)`,
				p.ID, p.Name, p.Group, formatTime(p.CreatedAt), formatTime(p.UpdatedAt),
			); err != nil {
				return nil, err
			}
			kept[p.ID] = true
			result = append(result, p)

		case current.Name != incoming.Name || current.Group != incoming.Group:
			current.Name = incoming.Name
			current.Group = incoming.Group
			current.UpdatedAt = now
			if _, err := tx.ExecContext(ctx, `
				UPDATE patrons SET name = ?, grp = ?, updated_at = ? WHERE id = ?`,
				current.Name, current.Group, formatTime(current.UpdatedAt), current.ID,
			); err != nil {
				return nil, err
			}
			kept[current.ID] = true
			result = append(result, current)

		default:
			kept[current.ID] = true
			result = append(result, current)
		}
	}

	for _, p := range existing {
		if kept[p.ID] {
			continue
		}
		var activeLoans int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM loans WHERE patron_id = ? AND status = ?`,
			p.ID, string(domain.LoanActive)).Scan(&activeLoans)
		if err != nil {
			return nil, err
		}
		if activeLoans > 0 {
			return nil, errors.Validationf("patron %s still has %d active loan(s) and cannot be removed", p.Name, activeLoans)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM patrons WHERE id = ?`, p.ID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListPatrons returns all patrons ordered by name.
func (s *Store) ListPatrons(ctx context.Context) ([]*domain.Patron, error) {
	return queryPatrons(ctx, s.db, `SELECT `+patronColumns+` FROM patrons ORDER BY name COLLATE NOCASE`)
}

// GetPatron retrieves a patron by ID. Returns errors.ErrNotFound when absent.
func (s *Store) GetPatron(ctx context.Context, patronID string) (*domain.Patron, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+patronColumns+` FROM patrons WHERE id = ?`, patronID)

	p, err := scanPatron(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no patron with id %s", patronID)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// querier lets the patron queries run against either the pool or a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryPatrons(ctx context.Context, q querier, query string, args ...any) ([]*domain.Patron, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var patrons []*domain.Patron
	for rows.Next() {
		p, err := scanPatron(rows)
		if err != nil {
			return nil, err
		}
		patrons = append(patrons, p)
	}
	return patrons, rows.Err()
}
