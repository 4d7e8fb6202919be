package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
)

type debtService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	paymentRepo   portsrepo.PaymentRepository
	txnRepo       portsrepo.PurchaseRateBulkWriter
}

// DebtOption is a functional option for configuring the debt service
type DebtOption func(*debtService)

// WithDebtClock overrides the clock used for timestamps
func WithDebtClock(clock func() time.Time) DebtOption {
	return func(s *debtService) {
		s.Clock = clock
	}
}

// NewDebtService creates a new debt and commission aggregator
func NewDebtService(reportingRepo portsrepo.ReportingRepository, paymentRepo portsrepo.PaymentRepository, txnRepo portsrepo.PurchaseRateBulkWriter, options ...DebtOption) portssvc.DebtSvc {
	svc := &debtService{
		reportingRepo: reportingRepo,
		paymentRepo:   paymentRepo,
		txnRepo:       txnRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.DebtSvc = (*debtService)(nil)

// CommissionSummary attributes completed transactions to the actor through each
// seller's admin affiliation. Sellers without one belong to the Colombia administrator.
func (s *debtService) CommissionSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.CommissionSummary, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can view commissions", apperrors.ErrForbidden)
	}

	rows, err := s.reportingRepo.ListCommissionRows(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to list commission rows", slog.String("admin_id", actor.ID))
		return nil, err
	}

	summary := &domain.CommissionSummary{
		AdminID:           actor.ID,
		Range:             r,
		Vendors:           []domain.VendorCommission{},
		TotalCOP:          decimal.Zero,
		TotalCommission:   decimal.Zero,
		PaidCommission:    decimal.Zero,
		PendingCommission: decimal.Zero,
	}
	byVendor := map[string]*domain.VendorCommission{}
	for _, row := range rows {
		if !attributedTo(actor, row.SellerRef) {
			continue
		}
		v, ok := byVendor[row.SellerID]
		if !ok {
			v = &domain.VendorCommission{
				SellerRef:         row.SellerRef,
				TotalCOP:          decimal.Zero,
				TotalCommission:   decimal.Zero,
				PaidCommission:    decimal.Zero,
				PendingCommission: decimal.Zero,
			}
			byVendor[row.SellerID] = v
		}

		commission := accounting.CommissionAmount(row.AmountCOP, row.TransactionCommission)
		v.TransactionCount++
		v.TotalCOP = v.TotalCOP.Add(row.AmountCOP)
		v.TotalCommission = v.TotalCommission.Add(commission)
		if row.IsCommissionPaidToVendor {
			v.PaidCommission = v.PaidCommission.Add(commission)
		} else {
			v.PendingCommission = v.PendingCommission.Add(commission)
		}
	}

	for _, v := range byVendor {
		summary.Vendors = append(summary.Vendors, *v)
		summary.TransactionCount += v.TransactionCount
		summary.TotalCOP = summary.TotalCOP.Add(v.TotalCOP)
		summary.TotalCommission = summary.TotalCommission.Add(v.TotalCommission)
		summary.PaidCommission = summary.PaidCommission.Add(v.PaidCommission)
		summary.PendingCommission = summary.PendingCommission.Add(v.PendingCommission)
	}
	sort.Slice(summary.Vendors, func(i, j int) bool {
		return sellerLess(summary.Vendors[i].SellerRef, summary.Vendors[j].SellerRef)
	})

	s.LogDebug(ctx, "Commission summary built",
		slog.String("admin_id", actor.ID),
		slog.Int("vendors", len(summary.Vendors)),
		slog.Int("transactions", summary.TransactionCount))
	return summary, nil
}

func (s *debtService) ColombiaDebtSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.DebtSummary, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can view debt", apperrors.ErrForbidden)
	}
	sellers, totals, payments, pending, err := s.debtSlice(ctx, r)
	if err != nil {
		return nil, err
	}
	return &domain.DebtSummary{
		Range:                    r,
		Sellers:                  sellers,
		Totals:                   totals,
		TotalPayments:            payments,
		PendingDebt:              totals.ColombiaOwesVenezuela.Sub(payments),
		PendingPurchaseRateCount: pending,
	}, nil
}

func (s *debtService) VenezuelaEarningsSummary(ctx context.Context, actor domain.Actor, r domain.DateRange) (*domain.VenezuelaEarnings, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can view earnings", apperrors.ErrForbidden)
	}
	sellers, totals, payments, pending, err := s.debtSlice(ctx, r)
	if err != nil {
		return nil, err
	}
	return &domain.VenezuelaEarnings{
		Range:                    r,
		Sellers:                  sellers,
		TotalInvestment:          totals.Investment,
		TotalProfit:              totals.VenezuelaProfit,
		TotalReceivable:          totals.ColombiaOwesVenezuela,
		TotalReceived:            payments,
		Outstanding:              totals.ColombiaOwesVenezuela.Sub(payments),
		PendingPurchaseRateCount: pending,
	}, nil
}

func (s *debtService) PayVendorCommissions(ctx context.Context, actor domain.Actor, vendorID string, r domain.DateRange) (int64, error) {
	if !actor.IsAdmin() {
		return 0, fmt.Errorf("%w: only administrators can pay commissions", apperrors.ErrForbidden)
	}
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return 0, fmt.Errorf("%w: vendorID is required", apperrors.ErrValidation)
	}

	rows, err := s.reportingRepo.ListCommissionRows(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to list commission rows", slog.String("vendor_id", vendorID))
		return 0, err
	}
	var vendor *domain.SellerRef
	for i := range rows {
		if rows[i].SellerID == vendorID {
			vendor = &rows[i].SellerRef
			break
		}
	}
	if vendor == nil {
		s.LogDebug(ctx, "No commissions to pay", slog.String("vendor_id", vendorID))
		return 0, nil
	}
	if !attributedTo(actor, *vendor) {
		return 0, fmt.Errorf("%w: vendor %s is attributed to another administrator", apperrors.ErrForbidden, vendorID)
	}

	marked, err := s.txnRepo.MarkCommissionsPaid(ctx, vendorID, r, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to mark commissions paid", slog.String("vendor_id", vendorID))
		return 0, err
	}
	s.LogInfo(ctx, "Vendor commissions paid",
		slog.String("vendor_id", vendorID),
		slog.Int64("transactions", marked))
	return marked, nil
}

// debtSlice folds final-rate transactions through the shared profit formula.
// Both administrators' views are derived from its output.
func (s *debtService) debtSlice(ctx context.Context, r domain.DateRange) (sellers []domain.SellerDebt, totals domain.SellerDebt, payments decimal.Decimal, pending int, err error) {
	rows, err := s.reportingRepo.ListReconciledRows(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to list reconciled transactions")
		return nil, totals, decimal.Zero, 0, err
	}
	payments, err = s.paymentRepo.SumPayments(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum payments")
		return nil, totals, decimal.Zero, 0, err
	}
	pending, err = s.reportingRepo.CountCompletedWithoutFinalRate(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to count transactions pending purchase rate")
		return nil, totals, decimal.Zero, 0, err
	}

	totals = zeroSellerDebt(domain.SellerRef{})
	bySeller := map[string]*domain.SellerDebt{}
	for _, row := range rows {
		if !row.IsPurchaseRateSet {
			continue
		}
		d, ok := bySeller[row.SellerID]
		if !ok {
			sd := zeroSellerDebt(row.SellerRef)
			d = &sd
			bySeller[row.SellerID] = d
		}
		profit := accounting.ComputeProfit(row.AmountCOP, row.AmountBs, row.PurchaseRate)
		d.ProfitBreakdown = d.ProfitBreakdown.Add(profit)
		d.TransactionCount++
		d.TotalCOP = d.TotalCOP.Add(row.AmountCOP)
		d.TotalBs = d.TotalBs.Add(row.AmountBs)
	}

	sellers = make([]domain.SellerDebt, 0, len(bySeller))
	for _, d := range bySeller {
		sellers = append(sellers, *d)
		totals.ProfitBreakdown = totals.ProfitBreakdown.Add(d.ProfitBreakdown)
		totals.TransactionCount += d.TransactionCount
		totals.TotalCOP = totals.TotalCOP.Add(d.TotalCOP)
		totals.TotalBs = totals.TotalBs.Add(d.TotalBs)
	}
	sort.Slice(sellers, func(i, j int) bool { return sellerLess(sellers[i].SellerRef, sellers[j].SellerRef) })

	if pending > 0 {
		s.LogDebug(ctx, "Debt totals are provisional", slog.Int("pending_purchase_rate", pending))
	}
	return sellers, totals, payments, pending, nil
}

func zeroSellerDebt(ref domain.SellerRef) domain.SellerDebt {
	return domain.SellerDebt{
		SellerRef: ref,
		ProfitBreakdown: domain.ProfitBreakdown{
			Investment:            decimal.Zero,
			SystemProfit:          decimal.Zero,
			ColombiaProfit:        decimal.Zero,
			VenezuelaProfit:       decimal.Zero,
			ColombiaOwesVenezuela: decimal.Zero,
		},
		TotalCOP: decimal.Zero,
		TotalBs:  decimal.Zero,
	}
}

// attributedTo applies the affiliation rule with its legacy fallback.
func attributedTo(admin domain.Actor, seller domain.SellerRef) bool {
	if seller.SellerAdminID == nil || *seller.SellerAdminID == "" {
		return admin.Role == domain.RoleAdminColombia
	}
	return *seller.SellerAdminID == admin.ID
}

func sellerLess(a, b domain.SellerRef) bool {
	if a.SellerName != b.SellerName {
		return a.SellerName < b.SellerName
	}
	return a.SellerID < b.SellerID
}
