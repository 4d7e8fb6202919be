package dto

import (
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest records money sent from Colombia to Venezuela.
type RecordPaymentRequest struct {
	Amount      *decimal.Decimal `json:"amount" binding:"required"`
	PaymentDate string           `json:"paymentDate" binding:"required"` // YYYY-MM-DD, local time
	Notes       string           `json:"notes"`
	ProofPath   *string          `json:"proofPath"`
}

// ListPaymentsResponse wraps the payments of a period.
type ListPaymentsResponse struct {
	Payments []domain.VenezuelaPayment `json:"payments"`
	Total    decimal.Decimal           `json:"total"`
}

// ToListPaymentsResponse sums the listed payments.
func ToListPaymentsResponse(payments []domain.VenezuelaPayment) ListPaymentsResponse {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	if payments == nil {
		payments = []domain.VenezuelaPayment{}
	}
	return ListPaymentsResponse{Payments: payments, Total: total}
}
