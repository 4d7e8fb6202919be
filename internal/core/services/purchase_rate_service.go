package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const (
	notePurchaseRateSet       = "Tasa de compra establecida"
	notePurchaseRateFinal     = "Tasa de compra marcada como final"
	notePurchaseRateRemoved   = "Tasa de compra eliminada"
	notePurchaseRateUnfinaled = "Tasa de compra final revertida y eliminada"
)

// purchaseRateService implements the PurchaseRateSvc interface
type purchaseRateService struct {
	transactionWriter
	reportingRepo portsrepo.ReportingRepository
}

// PurchaseRateOption is a functional option for configuring the purchase rate service
type PurchaseRateOption func(*purchaseRateService)

// WithPurchaseRateClock overrides the clock used for timestamps
func WithPurchaseRateClock(clock func() time.Time) PurchaseRateOption {
	return func(s *purchaseRateService) {
		s.Clock = clock
	}
}

// WithPurchaseRateEditWindow keeps auto-advance consistent with the transaction service
func WithPurchaseRateEditWindow(window time.Duration) PurchaseRateOption {
	return func(s *purchaseRateService) {
		if window > 0 {
			s.editWindow = window
		}
	}
}

// NewPurchaseRateService creates a new purchase rate service with the provided options
func NewPurchaseRateService(txnRepo portsrepo.TransactionRepositoryWithTx, reportingRepo portsrepo.ReportingRepository, options ...PurchaseRateOption) portssvc.PurchaseRateSvc {
	svc := &purchaseRateService{
		transactionWriter: newTransactionWriter(txnRepo),
		reportingRepo:     reportingRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PurchaseRateSvc = (*purchaseRateService)(nil)

func (s *purchaseRateService) SetPurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64, rate decimal.Decimal, final bool) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "set purchase rates", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: purchase rate must be positive", apperrors.ErrValidation)
	}

	return s.mutate(ctx, actor, transactionID, "set purchase rate", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if err := checkReconcilable(t); err != nil {
			return "", err
		}
		if t.IsPurchaseRateSet {
			return "", fmt.Errorf("%w: purchase rate of transaction %d is already final; remove it first",
				apperrors.ErrInvalidTransition, t.ID)
		}
		r := rate
		t.PurchaseRate = &r
		t.IsPurchaseRateSet = final

		note := fmt.Sprintf("%s: %s", notePurchaseRateSet, rate.String())
		if final {
			note += " (final)"
		}
		return note, nil
	})
}

func (s *purchaseRateService) FinalizePurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "finalize purchase rates", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, transactionID, "finalize purchase rate", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if err := checkReconcilable(t); err != nil {
			return "", err
		}
		if !t.HasPurchaseRate() {
			return "", fmt.Errorf("%w: transaction %d has no purchase rate to finalize", apperrors.ErrValidation, t.ID)
		}
		if t.IsPurchaseRateSet {
			return "", fmt.Errorf("%w: purchase rate of transaction %d is already final", apperrors.ErrInvalidTransition, t.ID)
		}
		t.IsPurchaseRateSet = true
		return fmt.Sprintf("%s: %s", notePurchaseRateFinal, t.PurchaseRate.String()), nil
	})
}

func (s *purchaseRateService) RemovePurchaseRate(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "remove purchase rates", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, transactionID, "remove purchase rate", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if err := checkReconcilable(t); err != nil {
			return "", err
		}
		if !t.HasPurchaseRate() {
			return "", fmt.Errorf("%w: transaction %d has no purchase rate", apperrors.ErrValidation, t.ID)
		}
		note := fmt.Sprintf("%s: %s", notePurchaseRateRemoved, t.PurchaseRate.String())
		if t.IsPurchaseRateSet {
			note = fmt.Sprintf("%s: %s", notePurchaseRateUnfinaled, t.PurchaseRate.String())
			s.LogWarn(ctx, "Final purchase rate removed",
				slog.Int64("transaction_id", t.ID),
				slog.String("purchase_rate", t.PurchaseRate.String()))
		}
		t.PurchaseRate = nil
		t.IsPurchaseRateSet = false
		return note, nil
	})
}

func (s *purchaseRateService) BulkSetPurchaseRate(ctx context.Context, actor domain.Actor, filter domain.PurchaseRateFilter, rate decimal.Decimal, final bool) ([]int64, error) {
	if err := s.RequireRole(ctx, actor, "set purchase rates", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("%w: purchase rate must be positive", apperrors.ErrValidation)
	}

	ids, err := s.txnRepo.BulkSetPurchaseRate(ctx, filter, rate, final, actor.ID, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to bulk set purchase rate", slog.String("purchase_rate", rate.String()))
		return nil, err
	}
	s.LogInfo(ctx, "Purchase rate applied in bulk",
		slog.String("purchase_rate", rate.String()),
		slog.Bool("final", final),
		slog.Int("affected", len(ids)))
	return ids, nil
}

func (s *purchaseRateService) BulkRemovePurchaseRate(ctx context.Context, actor domain.Actor, filter domain.PurchaseRateFilter) ([]int64, error) {
	if err := s.RequireRole(ctx, actor, "remove purchase rates", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	ids, err := s.txnRepo.BulkRemovePurchaseRate(ctx, filter, actor.ID, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to bulk remove purchase rate")
		return nil, err
	}
	s.LogInfo(ctx, "Provisional purchase rates removed in bulk", slog.Int("affected", len(ids)))
	return ids, nil
}

func (s *purchaseRateService) ListPendingPurchaseRates(ctx context.Context, actor domain.Actor, r domain.DateRange) ([]domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can review purchase rates", apperrors.ErrForbidden)
	}
	txns, err := s.reportingRepo.ListCompletedWithoutFinalRate(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions pending purchase rate")
		return nil, err
	}
	if txns == nil {
		txns = []domain.Transaction{}
	}
	return txns, nil
}

func checkReconcilable(t *domain.Transaction) error {
	if t.Status != domain.StatusCompleted {
		return fmt.Errorf("%w: transaction %d is %s; purchase rates only apply to %s transactions",
			apperrors.ErrInvalidTransition, t.ID, t.Status, domain.StatusCompleted)
	}
	return nil
}
