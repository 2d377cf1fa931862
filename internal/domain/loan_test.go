package domain

import (
	"testing"
	"time"

	"github.com/acervoapp/acervo-server/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoanStatus_CanTransition(t *testing.T) {
	tests := []struct {
		name string
		from LoanStatus
		to   LoanStatus
		want bool
	}{
		{"active to returned", LoanActive, LoanReturned, true},
		{"returned is terminal", LoanReturned, LoanActive, false},
		{"returned to returned", LoanReturned, LoanReturned, false},
		{"active to active", LoanActive, LoanActive, false},
		{"unknown status", LoanStatus("Overdue"), LoanReturned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}

func TestNewLoanRecord(t *testing.T) {
	loan := NewLoanRecord("loan-1", "9788532511010", "pat-1", 15)

	assert.Equal(t, LoanActive, loan.Status)
	assert.Nil(t, loan.ReturnedAt)
	assert.Equal(t, 15*24*time.Hour, loan.DueDate.Sub(loan.CheckoutDate))
}

func TestMarkReturned(t *testing.T) {
	loan := NewLoanRecord("loan-1", "9788532511010", "pat-1", 7)
	at := time.Now().UTC()

	require.NoError(t, loan.MarkReturned(at))
	assert.Equal(t, LoanReturned, loan.Status)
	require.NotNil(t, loan.ReturnedAt)
	assert.Equal(t, at, *loan.ReturnedAt)

	// Second return is rejected: Returned is terminal.
	err := loan.MarkReturned(time.Now())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidTransition))
}
