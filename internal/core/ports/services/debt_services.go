package services

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// DebtSvc aggregates reconciled transactions and payments into summaries.
type DebtSvc interface {
	// CommissionSummary returns the commission slice for the actor's sellers.
	CommissionSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.CommissionSummary, error)

	// ColombiaDebtSummary returns per-seller and global debt owed to Venezuela.
	ColombiaDebtSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.DebtSummary, error)

	// VenezuelaEarningsSummary returns the receiving side's view of the same transactions.
	VenezuelaEarningsSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.VenezuelaEarnings, error)

	// PayVendorCommissions marks the vendor's pending commissions in range as paid.
	PayVendorCommissions(ctx context.Context, actor domain.Actor, vendorID string, r domain.DateRange) (int64, error)
}
