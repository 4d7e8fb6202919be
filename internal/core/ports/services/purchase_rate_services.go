package services

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PurchaseRateSvc defines the reconciliation workflow on completed transactions.
type PurchaseRateSvc interface {
	// SetPurchaseRate attaches or edits a provisional purchase rate, optionally marking it final.
	SetPurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64, rate decimal.Decimal, final bool) (*domain.Transaction, error)

	// FinalizePurchaseRate marks an attached purchase rate as final.
	FinalizePurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)

	// RemovePurchaseRate clears the purchase rate and its final flag.
	RemovePurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)

	// BulkSetPurchaseRate applies rate to every eligible transaction in filter and returns their IDs.
	BulkSetPurchaseRate(ctx context.Context, actor domain.Actor, filter domain.PurchaseRateFilter, rate decimal.Decimal, final bool) ([]int64, error)

	// BulkRemovePurchaseRate clears provisional purchase rates in filter and returns their IDs.
	BulkRemovePurchaseRate(ctx context.Context, actor domain.Actor, filter domain.PurchaseRateFilter) ([]int64, error)

	// ListPendingPurchaseRates lists completed transactions still lacking a final purchase rate.
	ListPendingPurchaseRates(ctx context.Context, actor domain.Actor, r domain.DateRange) ([]domain.Transaction, error)
}
