package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// VenezuelaPayment is money sent by the Colombia administrator to the Venezuela
// administrator. It only takes part in aggregate debt arithmetic.
type VenezuelaPayment struct {
	PaymentID   string          `json:"paymentID"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate time.Time       `json:"paymentDate"`
	Notes       string          `json:"notes"`
	ProofPath   *string         `json:"proofPath,omitempty"`
	CreatedBy   string          `json:"createdBy"`
	CreatedAt   time.Time       `json:"createdAt"`
}
