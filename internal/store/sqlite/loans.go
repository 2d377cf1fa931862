package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
)

const loanColumns = `id, catalog_code, patron_id, checkout_date, due_date, status, returned_at`

func scanLoan(scanner interface{ Scan(dest ...any) error }) (*domain.LoanRecord, error) {
	var l domain.LoanRecord
	var checkoutDate, dueDate, status string
	var returnedAt sql.NullString

	err := scanner.Scan(
		&l.ID,
		&l.CatalogCode,
		&l.PatronID,
		&checkoutDate,
		&dueDate,
		&status,
		&returnedAt,
	)
	if err != nil {
		return nil, err
	}

	l.Status = domain.LoanStatus(status)
	l.CheckoutDate, err = parseTime(checkoutDate)
	if err != nil {
		return nil, err
	}
	l.DueDate, err = parseTime(dueDate)
	if err != nil {
		return nil, err
	}
	l.ReturnedAt, err = parseNullableTime(returnedAt)
	if err != nil {
		return nil, err
	}

	return &l, nil
}

// CreateLoan decrements stock and inserts the loan record in one
// transaction. The conditional UPDATE is the linearization point: of two
// concurrent checkouts against a single remaining copy, exactly one sees a
// row affected; the other gets errors.ErrOutOfStock and no loan is written.
func (s *Store) CreateLoan(ctx context.Context, loan *domain.LoanRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE catalog_entries
		SET quantity = quantity - 1, updated_at = ?
		WHERE code = ? AND quantity > 0`,
		formatTime(time.Now()), loan.CatalogCode,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM catalog_entries WHERE code = ?`, loan.CatalogCode).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return errors.NotFoundf("no catalog entry with code %s", loan.CatalogCode)
		}
		return errors.OutOfStockf("no copies of %s available for loan", loan.CatalogCode)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO loans (id, catalog_code, patron_id, checkout_date, due_date, status, returned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		loan.ID,
		loan.CatalogCode,
		loan.PatronID,
		formatTime(loan.CheckoutDate),
		formatTime(loan.DueDate),
		string(loan.Status),
		nullTimeString(loan.ReturnedAt),
	)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// ReturnLoan transitions a loan to Returned and restores one copy of stock
// in the same transaction. The conditional UPDATE on status rejects returns
// of anything but an active loan.
func (s *Store) ReturnLoan(ctx context.Context, loanID string, returnedAt time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var catalogCode, status string
	err = tx.QueryRowContext(ctx,
		`SELECT catalog_code, status FROM loans WHERE id = ?`, loanID).Scan(&catalogCode, &status)
	if err == sql.ErrNoRows {
		return errors.NotFoundf("no loan with id %s", loanID)
	}
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE loans SET status = ?, returned_at = ?
		WHERE id = ? AND status = ?`,
		string(domain.LoanReturned), formatTime(returnedAt), loanID, string(domain.LoanActive),
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.InvalidTransitionf("loan %s is %s, only active loans can be returned", loanID, status)
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE catalog_entries SET quantity = quantity + 1, updated_at = ?
		WHERE code = ?`,
		formatTime(time.Now()), catalogCode,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// GetLoan retrieves a loan by ID. Returns errors.ErrNotFound when absent.
func (s *Store) GetLoan(ctx context.Context, loanID string) (*domain.LoanRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, loanID)

	l, err := scanLoan(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("no loan with id %s", loanID)
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListActiveLoans returns active loans joined with the entry title and
// patron name, ordered by due date.
func (s *Store) ListActiveLoans(ctx context.Context) ([]*domain.ActiveLoanView, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.catalog_code, e.title, l.patron_id, p.name, l.checkout_date, l.due_date
		FROM loans l
		JOIN catalog_entries e ON e.code = l.catalog_code
		JOIN patrons p ON p.id = l.patron_id
		WHERE l.status = ?
		ORDER BY l.due_date`,
		string(domain.LoanActive),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []*domain.ActiveLoanView
	for rows.Next() {
		var v domain.ActiveLoanView
		var checkoutDate, dueDate string
		if err := rows.Scan(&v.LoanID, &v.CatalogCode, &v.Title, &v.PatronID, &v.PatronName, &checkoutDate, &dueDate); err != nil {
			return nil, err
		}
		if v.CheckoutDate, err = parseTime(checkoutDate); err != nil {
			return nil, err
		}
		if v.DueDate, err = parseTime(dueDate); err != nil {
			return nil, err
		}
		views = append(views, &v)
	}
	return views, rows.Err()
}
