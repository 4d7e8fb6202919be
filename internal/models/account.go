package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a cash account row.
type Account struct {
	AccountID string          `db:"account_id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	OwnerID   string          `db:"owner_id"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// AccountTransaction represents a movement row of the account_transactions ledger.
type AccountTransaction struct {
	AccountTransactionID string          `db:"account_transaction_id"`
	AccountID            string          `db:"account_id"`
	Type                 string          `db:"type"`
	Amount               decimal.Decimal `db:"amount"`
	TransactionID        *int64          `db:"transaction_id"` // Nullable
	BalanceBefore        decimal.Decimal `db:"balance_before"`
	BalanceAfter         decimal.Decimal `db:"balance_after"`
	Description          string          `db:"description"`
	CreatedBy            string          `db:"created_by"`
	CreatedAt            time.Time       `db:"created_at"`
}
