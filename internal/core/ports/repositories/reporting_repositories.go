package repositories

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// ReportingRepository defines read queries backing the debt and commission reports
type ReportingRepository interface {
	// ListCommissionRows retrieves every COMPLETADO transaction created in range with its seller attribution.
	ListCommissionRows(ctx context.Context, r domain.DateRange) ([]domain.CommissionRow, error)

	// ListReconciledRows retrieves COMPLETADO transactions in range that carry a purchase rate,
	// provisional or final.
	ListReconciledRows(ctx context.Context, r domain.DateRange) ([]domain.ReconciledRow, error)

	// CountCompletedWithoutFinalRate counts COMPLETADO transactions in range lacking a final purchase rate.
	CountCompletedWithoutFinalRate(ctx context.Context, r domain.DateRange) (int, error)

	// ListCompletedWithoutFinalRate lists the same transactions for the reconciliation worklist.
	ListCompletedWithoutFinalRate(ctx context.Context, r domain.DateRange) ([]domain.Transaction, error)
}
