package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountTransactionType indicates the direction of a cash-account movement.
type AccountTransactionType string

const (
	Deposit    AccountTransactionType = "DEPOSIT"
	Withdrawal AccountTransactionType = "WITHDRAWAL"
)

// Account is a named cash account (usually a bank account) held by an administrator.
// Balance is only ever changed through an AccountTransaction.
type Account struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	OwnerID   string          `json:"ownerID"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// AccountTransaction is one ledger movement with its before/after balance snapshot.
type AccountTransaction struct {
	AccountTransactionID string                 `json:"accountTransactionID"`
	AccountID            string                 `json:"accountID"`
	Type                 AccountTransactionType `json:"type"`
	Amount               decimal.Decimal        `json:"amount"` // always positive; Type carries the sign
	TransactionID        *int64                 `json:"transactionID,omitempty"`
	BalanceBefore        decimal.Decimal        `json:"balanceBefore"`
	BalanceAfter         decimal.Decimal        `json:"balanceAfter"`
	Description          string                 `json:"description"`
	CreatedBy            string                 `json:"createdBy"`
	CreatedAt            time.Time              `json:"createdAt"`
}

// SignedAmount returns the amount with the sign implied by Type.
func (at AccountTransaction) SignedAmount() decimal.Decimal {
	if at.Type == Withdrawal {
		return at.Amount.Neg()
	}
	return at.Amount
}

// ApplyMovement computes the new balance for a movement without mutating a.
// Withdrawals that would leave a negative balance fail with ErrInsufficientFunds.
func (a Account) ApplyMovement(kind AccountTransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	switch kind {
	case Deposit:
		return a.Balance.Add(amount), nil
	case Withdrawal:
		if a.Balance.LessThan(amount) {
			return decimal.Zero, fmt.Errorf("%w: account %s has %s available, %s requested",
				apperrors.ErrInsufficientFunds, a.AccountID, a.Balance.StringFixed(2), amount.StringFixed(2))
		}
		return a.Balance.Sub(amount), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unknown movement type %q", apperrors.ErrValidation, kind)
	}
}
