package domain

import (
	"time"

	"github.com/acervoapp/acervo-server/internal/errors"
)

// LoanStatus is the closed set of loan states. Absence of a record is the
// implicit third state: no loan exists for the copy.
type LoanStatus string

const (
	LoanActive   LoanStatus = "Active"
	LoanReturned LoanStatus = "Returned" // terminal
)

// Valid reports whether s is a known status.
func (s LoanStatus) Valid() bool {
	return s == LoanActive || s == LoanReturned
}

// loanTransitions is the explicit transition table. Anything not listed is
// rejected; Returned is terminal.
var loanTransitions = map[LoanStatus][]LoanStatus{
	LoanActive:   {LoanReturned},
	LoanReturned: {},
}

// CanTransition reports whether from -> to is a legal transition.
func (s LoanStatus) CanTransition(to LoanStatus) bool {
	for _, next := range loanTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// LoanRecord tracks one physical copy out on loan. It is immutable except
// for the Active -> Returned transition. The due date is stored but never
// compared against the clock; overdue handling is not a feature of this
// system.
type LoanRecord struct {
	ID           string     `json:"id"`
	CatalogCode  string     `json:"catalog_code"`
	PatronID     string     `json:"patron_id"`
	CheckoutDate time.Time  `json:"checkout_date"`
	DueDate      time.Time  `json:"due_date"`
	Status       LoanStatus `json:"status"`
	ReturnedAt   *time.Time `json:"returned_at,omitempty"`
}

// NewLoanRecord creates an active loan checked out now and due in dueInDays.
func NewLoanRecord(id, catalogCode, patronID string, dueInDays int) *LoanRecord {
	now := time.Now().UTC()
	return &LoanRecord{
		ID:           id,
		CatalogCode:  catalogCode,
		PatronID:     patronID,
		CheckoutDate: now,
		DueDate:      now.AddDate(0, 0, dueInDays),
		Status:       LoanActive,
	}
}

// MarkReturned transitions the loan to Returned. Fails with
// errors.ErrInvalidTransition when the loan is not Active.
func (l *LoanRecord) MarkReturned(at time.Time) error {
	if !l.Status.CanTransition(LoanReturned) {
		return errors.InvalidTransitionf("loan %s is %s, only active loans can be returned", l.ID, l.Status)
	}
	l.Status = LoanReturned
	l.ReturnedAt = &at
	return nil
}

// ActiveLoanView is the read model for the return desk: the loan joined
// with the entry title and patron name.
type ActiveLoanView struct {
	LoanID       string    `json:"loan_id"`
	CatalogCode  string    `json:"catalog_code"`
	Title        string    `json:"title"`
	PatronID     string    `json:"patron_id"`
	PatronName   string    `json:"patron_name"`
	CheckoutDate time.Time `json:"checkout_date"`
	DueDate      time.Time `json:"due_date"`
}
