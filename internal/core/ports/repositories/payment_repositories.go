package repositories

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentRepository defines persistence for Colombia-to-Venezuela payments
type PaymentRepository interface {
	// SavePayment persists a new payment.
	SavePayment(ctx context.Context, payment domain.VenezuelaPayment) error

	// ListPayments retrieves payments whose payment date falls in range, newest first.
	ListPayments(ctx context.Context, r domain.DateRange) ([]domain.VenezuelaPayment, error)

	// SumPayments totals payments whose payment date falls in range.
	SumPayments(ctx context.Context, r domain.DateRange) (decimal.Decimal, error)
}
