package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reconciledRow(final bool) domain.ReconciledRow {
	adminID := "admin-co"
	return domain.ReconciledRow{
		SellerRef:         domain.SellerRef{SellerID: "seller-1", SellerName: "Ana", SellerAdminID: &adminID},
		TransactionID:     42,
		AmountCOP:         d("1000"),
		AmountBs:          d("128.2"),
		SaleRate:          d("7.8"),
		PurchaseRate:      d("8.0"),
		IsPurchaseRateSet: final,
		CreatedAt:         t0,
	}
}

func TestColombiaDebtSummary_SingleReconciledTransaction(t *testing.T) {
	ctx := context.Background()
	reporting := new(MockReportingRepository)
	payments := new(MockPaymentRepository)
	r := domain.DateRange{}

	reporting.On("ListReconciledRows", ctx, r).Return([]domain.ReconciledRow{reconciledRow(true)}, nil)
	reporting.On("CountCompletedWithoutFinalRate", ctx, r).Return(0, nil)
	payments.On("SumPayments", ctx, r).Return(d("500"), nil)

	svc := services.NewDebtService(reporting, payments, new(MockTransactionRepository))
	summary, err := svc.ColombiaDebtSummary(ctx, adminCO, r)

	require.NoError(t, err)
	require.Len(t, summary.Sellers, 1)
	seller := summary.Sellers[0]
	assert.True(t, seller.Investment.Equal(d("1025.6")), "investment = %s", seller.Investment)
	assert.True(t, seller.SystemProfit.Equal(d("-25.6")))
	assert.True(t, seller.ColombiaProfit.Equal(d("-12.8")))
	assert.True(t, seller.VenezuelaProfit.Equal(d("-12.8")))
	assert.True(t, seller.ColombiaOwesVenezuela.Equal(d("1012.8")))
	assert.True(t, summary.Totals.ColombiaOwesVenezuela.Equal(d("1012.8")))
	assert.True(t, summary.PendingDebt.Equal(d("512.8")), "pending = %s", summary.PendingDebt)
	assert.True(t, summary.HasData())
}

func TestColombiaDebtSummary_ExcludesProvisionalRates(t *testing.T) {
	ctx := context.Background()
	reporting := new(MockReportingRepository)
	payments := new(MockPaymentRepository)
	r := domain.DateRange{}

	reporting.On("ListReconciledRows", ctx, r).Return([]domain.ReconciledRow{reconciledRow(false)}, nil)
	reporting.On("CountCompletedWithoutFinalRate", ctx, r).Return(1, nil)
	payments.On("SumPayments", ctx, r).Return(d("0"), nil)

	svc := services.NewDebtService(reporting, payments, new(MockTransactionRepository))
	summary, err := svc.ColombiaDebtSummary(ctx, adminCO, r)

	require.NoError(t, err)
	assert.Empty(t, summary.Sellers)
	assert.Equal(t, 0, summary.Totals.TransactionCount)
	assert.True(t, summary.Totals.ColombiaOwesVenezuela.IsZero())
	assert.Equal(t, 1, summary.PendingPurchaseRateCount)
	assert.False(t, summary.HasData())
}

func TestVenezuelaEarnings_UsesSameFormula(t *testing.T) {
	ctx := context.Background()
	reporting := new(MockReportingRepository)
	payments := new(MockPaymentRepository)
	r := domain.DateRange{}

	reporting.On("ListReconciledRows", ctx, r).Return([]domain.ReconciledRow{reconciledRow(true), reconciledRow(false)}, nil)
	reporting.On("CountCompletedWithoutFinalRate", ctx, r).Return(1, nil)
	payments.On("SumPayments", ctx, r).Return(d("1000"), nil)

	svc := services.NewDebtService(reporting, payments, new(MockTransactionRepository))
	earnings, err := svc.VenezuelaEarningsSummary(ctx, adminVE, r)

	require.NoError(t, err)
	assert.True(t, earnings.TotalInvestment.Equal(d("1025.6")))
	assert.True(t, earnings.TotalProfit.Equal(d("-12.8")))
	assert.True(t, earnings.TotalReceivable.Equal(d("1012.8")))
	assert.True(t, earnings.Outstanding.Equal(d("12.8")))
	assert.Equal(t, 1, earnings.PendingPurchaseRateCount)
}

func TestCommissionSummary_AffiliationAndLegacyFallback(t *testing.T) {
	ctx := context.Background()
	reporting := new(MockReportingRepository)
	r := domain.DateRange{}
	adminCOID, adminVEID := "admin-co", "admin-ve"

	rows := []domain.CommissionRow{
		{SellerRef: domain.SellerRef{SellerID: "s1", SellerName: "Ana", SellerAdminID: &adminCOID},
			TransactionID: 1, AmountCOP: d("100000"), TransactionCommission: d("5"), IsCommissionPaidToVendor: true},
		{SellerRef: domain.SellerRef{SellerID: "s1", SellerName: "Ana", SellerAdminID: &adminCOID},
			TransactionID: 2, AmountCOP: d("50000"), TransactionCommission: d("2")},
		{SellerRef: domain.SellerRef{SellerID: "s0", SellerName: "Legacy"},
			TransactionID: 3, AmountCOP: d("10000"), TransactionCommission: d("2")},
		{SellerRef: domain.SellerRef{SellerID: "s2", SellerName: "Luis", SellerAdminID: &adminVEID},
			TransactionID: 4, AmountCOP: d("80000"), TransactionCommission: d("4")},
	}
	reporting.On("ListCommissionRows", ctx, r).Return(rows, nil)

	svc := services.NewDebtService(reporting, new(MockPaymentRepository), new(MockTransactionRepository))

	co, err := svc.CommissionSummary(ctx, adminCO, r)
	require.NoError(t, err)
	require.Len(t, co.Vendors, 2)
	assert.Equal(t, "Ana", co.Vendors[0].SellerName)
	assert.Equal(t, 2, co.Vendors[0].TransactionCount)
	assert.True(t, co.Vendors[0].PaidCommission.Equal(d("5000")))
	assert.True(t, co.Vendors[0].PendingCommission.Equal(d("1000")))
	assert.Equal(t, "Legacy", co.Vendors[1].SellerName)
	assert.True(t, co.TotalCommission.Equal(d("6200")), "total = %s", co.TotalCommission)

	ve, err := svc.CommissionSummary(ctx, adminVE, r)
	require.NoError(t, err)
	require.Len(t, ve.Vendors, 1)
	assert.True(t, ve.PendingCommission.Equal(d("3200")))
}

func TestCommissionSummary_NoDataIsEmptyNotError(t *testing.T) {
	ctx := context.Background()
	reporting := new(MockReportingRepository)
	reporting.On("ListCommissionRows", ctx, domain.DateRange{}).Return(nil, nil)

	svc := services.NewDebtService(reporting, new(MockPaymentRepository), new(MockTransactionRepository))
	summary, err := svc.CommissionSummary(ctx, adminCO, domain.DateRange{})

	require.NoError(t, err)
	assert.NotNil(t, summary.Vendors)
	assert.Equal(t, 0, summary.TransactionCount)
}

func TestPayVendorCommissions(t *testing.T) {
	ctx := context.Background()
	now := t0.Add(time.Hour)
	adminCOID := "admin-co"
	reporting := new(MockReportingRepository)
	reporting.On("ListCommissionRows", ctx, domain.DateRange{}).Return([]domain.CommissionRow{
		{SellerRef: domain.SellerRef{SellerID: "seller-1", SellerName: "Ana", SellerAdminID: &adminCOID},
			TransactionID: 1, AmountCOP: d("1000"), TransactionCommission: d("5")},
	}, nil)
	txns := new(MockTransactionRepository)
	txns.On("MarkCommissionsPaid", ctx, "seller-1", domain.DateRange{}, now).Return(int64(3), nil).Once()

	svc := services.NewDebtService(reporting, new(MockPaymentRepository), txns,
		services.WithDebtClock(func() time.Time { return now }))

	marked, err := svc.PayVendorCommissions(ctx, adminCO, "seller-1", domain.DateRange{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), marked)

	_, err = svc.PayVendorCommissions(ctx, colombiaSeller, "seller-1", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.PayVendorCommissions(ctx, adminCO, "", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	marked, err = svc.PayVendorCommissions(ctx, adminCO, "seller-9", domain.DateRange{})
	require.NoError(t, err)
	assert.Zero(t, marked)

	txns.AssertExpectations(t)
	txns.AssertNumberOfCalls(t, "MarkCommissionsPaid", 1)
}

func TestPayVendorCommissions_OtherAdministratorsVendorForbidden(t *testing.T) {
	ctx := context.Background()
	adminVEID := "admin-ve"
	reporting := new(MockReportingRepository)
	reporting.On("ListCommissionRows", ctx, domain.DateRange{}).Return([]domain.CommissionRow{
		{SellerRef: domain.SellerRef{SellerID: "seller-2", SellerName: "Luis", SellerAdminID: &adminVEID},
			TransactionID: 4, AmountCOP: d("80000"), TransactionCommission: d("4")},
		{SellerRef: domain.SellerRef{SellerID: "seller-0", SellerName: "Legacy"},
			TransactionID: 5, AmountCOP: d("10000"), TransactionCommission: d("2")},
	}, nil)
	txns := new(MockTransactionRepository)

	svc := services.NewDebtService(reporting, new(MockPaymentRepository), txns)

	_, err := svc.PayVendorCommissions(ctx, adminCO, "seller-2", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Sellers without an affiliation belong to the Colombia administrator.
	_, err = svc.PayVendorCommissions(ctx, adminVE, "seller-0", domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	txns.AssertNotCalled(t, "MarkCommissionsPaid", ctx, "seller-2", domain.DateRange{}, mock.Anything)
	txns.AssertNumberOfCalls(t, "MarkCommissionsPaid", 0)
}
