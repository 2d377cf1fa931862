package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/id"
	"github.com/acervoapp/acervo-server/internal/normalize"
	"github.com/acervoapp/acervo-server/internal/store"
	"github.com/acervoapp/acervo-server/internal/validation"
)

// LoanService handles checkouts and returns. Stock movement always rides
// inside the store's atomic loan operations; the service never adjusts
// quantity itself.
type LoanService struct {
	store      store.Store
	defaultDue int
	logger     *slog.Logger
	validator  *validation.Validator
}

// NewLoanService creates a new loan service. defaultDueDays applies when a
// checkout does not say how long the loan runs.
func NewLoanService(store store.Store, defaultDueDays int, logger *slog.Logger) *LoanService {
	return &LoanService{
		store:      store,
		defaultDue: defaultDueDays,
		logger:     logger,
		validator:  validation.New(),
	}
}

// CheckoutRequest is one checkout at the loan desk.
type CheckoutRequest struct {
	Code      string `json:"code" validate:"required"`
	PatronID  string `json:"patron_id" validate:"required"`
	DueInDays int    `json:"due_in_days" validate:"gte=0,lte=365"`
}

// Checkout lends one copy to a patron. The stock decrement and the loan
// insert are a single atomic unit; with one copy left and two concurrent
// checkouts, exactly one succeeds and the other gets ErrOutOfStock.
func (s *LoanService) Checkout(ctx context.Context, req CheckoutRequest) (*domain.LoanRecord, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	code, err := normalize.Code(req.Code)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.GetPatron(ctx, req.PatronID); err != nil {
		return nil, err
	}

	dueInDays := req.DueInDays
	if dueInDays == 0 {
		dueInDays = s.defaultDue
	}

	loan := domain.NewLoanRecord(id.MustGenerate(id.PrefixLoan), code, req.PatronID, dueInDays)
	if err := s.store.CreateLoan(ctx, loan); err != nil {
		return nil, err
	}

	s.logger.Info("loan created",
		"loan_id", loan.ID,
		"code", code,
		"patron_id", req.PatronID,
		"due_date", loan.DueDate)

	return loan, nil
}

// Return closes an active loan and restores the copy to stock.
func (s *LoanService) Return(ctx context.Context, loanID string) (*domain.LoanRecord, error) {
	if err := s.store.ReturnLoan(ctx, loanID, time.Now().UTC()); err != nil {
		return nil, err
	}

	loan, err := s.store.GetLoan(ctx, loanID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("loan returned", "loan_id", loanID, "code", loan.CatalogCode)
	return loan, nil
}

// ListActive returns the active loans joined with titles and patron names.
func (s *LoanService) ListActive(ctx context.Context) ([]*domain.ActiveLoanView, error) {
	return s.store.ListActiveLoans(ctx)
}
