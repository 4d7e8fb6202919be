package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateRange is a half-open [From, To) window; nil bounds are unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if r.From != nil && t.Before(*r.From) {
		return false
	}
	if r.To != nil && !t.Before(*r.To) {
		return false
	}
	return true
}

// ProfitBreakdown is the read-side profit/debt split of one reconciled transaction.
type ProfitBreakdown struct {
	Investment            decimal.Decimal `json:"investment"`
	SystemProfit          decimal.Decimal `json:"systemProfit"`
	ColombiaProfit        decimal.Decimal `json:"colombiaProfit"`
	VenezuelaProfit       decimal.Decimal `json:"venezuelaProfit"`
	ColombiaOwesVenezuela decimal.Decimal `json:"colombiaOwesVenezuela"`
}

// Add returns the field-wise sum of p and o.
func (p ProfitBreakdown) Add(o ProfitBreakdown) ProfitBreakdown {
	return ProfitBreakdown{
		Investment:            p.Investment.Add(o.Investment),
		SystemProfit:          p.SystemProfit.Add(o.SystemProfit),
		ColombiaProfit:        p.ColombiaProfit.Add(o.ColombiaProfit),
		VenezuelaProfit:       p.VenezuelaProfit.Add(o.VenezuelaProfit),
		ColombiaOwesVenezuela: p.ColombiaOwesVenezuela.Add(o.ColombiaOwesVenezuela),
	}
}

// SellerRef identifies the seller a transaction is attributed to.
type SellerRef struct {
	SellerID      string  `json:"sellerID"`
	SellerName    string  `json:"sellerName"`
	SellerAdminID *string `json:"sellerAdminID,omitempty"`
}

// CommissionRow is a completed transaction as seen by the commission slice.
type CommissionRow struct {
	SellerRef
	TransactionID            int64
	AmountCOP                decimal.Decimal
	TransactionCommission    decimal.Decimal
	IsCommissionPaidToVendor bool
	CreatedAt                time.Time
}

// ReconciledRow is a completed transaction carrying a purchase rate.
// Only rows with IsPurchaseRateSet take part in debt arithmetic.
type ReconciledRow struct {
	SellerRef
	TransactionID     int64
	AmountCOP         decimal.Decimal
	AmountBs          decimal.Decimal
	SaleRate          decimal.Decimal
	PurchaseRate      decimal.Decimal
	IsPurchaseRateSet bool
	CreatedAt         time.Time
}

// VendorCommission aggregates one vendor's commissions.
type VendorCommission struct {
	SellerRef
	TransactionCount  int             `json:"transactionCount"`
	TotalCOP          decimal.Decimal `json:"totalCOP"`
	TotalCommission   decimal.Decimal `json:"totalCommission"`
	PaidCommission    decimal.Decimal `json:"paidCommission"`
	PendingCommission decimal.Decimal `json:"pendingCommission"`
}

// CommissionSummary is the commission slice for one administrator.
type CommissionSummary struct {
	AdminID           string             `json:"adminID"`
	Range             DateRange          `json:"-"`
	Vendors           []VendorCommission `json:"vendors"`
	TransactionCount  int                `json:"transactionCount"`
	TotalCOP          decimal.Decimal    `json:"totalCOP"`
	TotalCommission   decimal.Decimal    `json:"totalCommission"`
	PaidCommission    decimal.Decimal    `json:"paidCommission"`
	PendingCommission decimal.Decimal    `json:"pendingCommission"`
}

// SellerDebt aggregates one seller's reconciled transactions.
type SellerDebt struct {
	SellerRef
	ProfitBreakdown
	TransactionCount int             `json:"transactionCount"`
	TotalCOP         decimal.Decimal `json:"totalCOP"`
	TotalBs          decimal.Decimal `json:"totalBs"`
}

// DebtSummary is the profit/debt slice seen from the Colombia side.
type DebtSummary struct {
	Range                    DateRange       `json:"-"`
	Sellers                  []SellerDebt    `json:"sellers"`
	Totals                   SellerDebt      `json:"totals"`
	TotalPayments            decimal.Decimal `json:"totalPayments"`
	PendingDebt              decimal.Decimal `json:"pendingDebt"`
	PendingPurchaseRateCount int             `json:"pendingPurchaseRateCount"`
}

// HasData reports whether any reconciled transaction or payment fell in range.
func (d DebtSummary) HasData() bool {
	return d.Totals.TransactionCount > 0 || !d.TotalPayments.IsZero()
}

// VenezuelaEarnings is the same slice seen from the receiving side.
type VenezuelaEarnings struct {
	Range                    DateRange       `json:"-"`
	Sellers                  []SellerDebt    `json:"sellers"`
	TotalInvestment          decimal.Decimal `json:"totalInvestment"`
	TotalProfit              decimal.Decimal `json:"totalProfit"`
	TotalReceivable          decimal.Decimal `json:"totalReceivable"`
	TotalReceived            decimal.Decimal `json:"totalReceived"`
	Outstanding              decimal.Decimal `json:"outstanding"`
	PendingPurchaseRateCount int             `json:"pendingPurchaseRateCount"`
}

// PurchaseRateFilter scopes bulk purchase-rate operations.
type PurchaseRateFilter struct {
	Range          DateRange
	TransactionIDs []int64
}
