package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acervoapp/acervo-server/internal/domain"
	"github.com/acervoapp/acervo-server/internal/errors"
)

func TestCheckout(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 2)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	loan, err := svc.Checkout(context.Background(), CheckoutRequest{
		Code:      hobbitISBN,
		PatronID:  patron.ID,
		DueInDays: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LoanActive, loan.Status)
	assert.Equal(t, hobbitISBN, loan.CatalogCode)
	assert.Equal(t, patron.ID, loan.PatronID)
	assert.WithinDuration(t, loan.CheckoutDate.AddDate(0, 0, 7), loan.DueDate, time.Second)

	entry, err := s.GetEntryByCode(context.Background(), hobbitISBN)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Quantity)
}

func TestCheckout_DefaultDueDays(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 1)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	loan, err := svc.Checkout(context.Background(), CheckoutRequest{
		Code:     hobbitISBN,
		PatronID: patron.ID,
	})
	require.NoError(t, err)
	assert.WithinDuration(t, loan.CheckoutDate.AddDate(0, 0, 15), loan.DueDate, time.Second)
}

func TestCheckout_OutOfStock(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 0)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Code:     hobbitISBN,
		PatronID: patron.ID,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrOutOfStock))

	views, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views, "a refused checkout writes no loan")
}

func TestCheckout_UnknownPatron(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 1)
	svc := NewLoanService(s, 15, testLogger())

	_, err := svc.Checkout(context.Background(), CheckoutRequest{
		Code:     hobbitISBN,
		PatronID: "pat_missing",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestReturn(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 1)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	loan, err := svc.Checkout(context.Background(), CheckoutRequest{Code: hobbitISBN, PatronID: patron.ID})
	require.NoError(t, err)

	returned, err := svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	require.NotNil(t, returned.ReturnedAt)

	entry, err := s.GetEntryByCode(context.Background(), hobbitISBN)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Quantity, "the copy goes back on the shelf")
}

func TestReturn_Twice(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 1)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	loan, err := svc.Checkout(context.Background(), CheckoutRequest{Code: hobbitISBN, PatronID: patron.ID})
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), loan.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidTransition))

	entry, err := s.GetEntryByCode(context.Background(), hobbitISBN)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Quantity, "a rejected return must not restock again")
}

func TestListActive(t *testing.T) {
	s := newTestStore(t)
	seedEntry(t, s, hobbitISBN, "O Hobbit", 3)
	patron := seedPatron(t, s, "Ana Souza", "5º Ano B")
	svc := NewLoanService(s, 15, testLogger())

	loan, err := svc.Checkout(context.Background(), CheckoutRequest{Code: hobbitISBN, PatronID: patron.ID})
	require.NoError(t, err)

	views, err := svc.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, loan.ID, views[0].LoanID)
	assert.Equal(t, "O Hobbit", views[0].Title)
	assert.Equal(t, "Ana Souza", views[0].PatronName)

	_, err = svc.Return(context.Background(), loan.ID)
	require.NoError(t, err)

	views, err = svc.ListActive(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}
