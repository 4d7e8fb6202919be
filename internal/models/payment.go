package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VenezuelaPayment represents a row of the venezuela_payments table.
type VenezuelaPayment struct {
	PaymentID   string          `db:"payment_id"`
	Amount      decimal.Decimal `db:"amount"`
	PaymentDate time.Time       `db:"payment_date"`
	Notes       string          `db:"notes"`
	ProofPath   *string         `db:"proof_path"`
	CreatedBy   string          `db:"created_by"`
	CreatedAt   time.Time       `db:"created_at"`
}
