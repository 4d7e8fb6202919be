package dto

import "github.com/SscSPs/remesas_backend/internal/core/domain"

// DateRangeParams defines the inclusive local-day window of a report.
// Both bounds are optional; an empty range means all time.
type DateRangeParams struct {
	From string `form:"from"`
	To   string `form:"to"`
}

// PayCommissionsRequest marks a vendor's pending commissions as paid.
type PayCommissionsRequest struct {
	VendorID string `json:"vendorID" binding:"required"`
	From     string `json:"from"`
	To       string `json:"to"`
}

// PayCommissionsResponse reports how many transactions were marked.
type PayCommissionsResponse struct {
	VendorID string `json:"vendorID"`
	Marked   int64  `json:"marked"`
}

// ReportResponse wraps a report with range metadata.
type ReportResponse[T any] struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	HasData bool   `json:"hasData"`
	Report  T      `json:"report"`
}

// NewReportResponse builds a ReportResponse echoing the requested range.
func NewReportResponse[T any](params DateRangeParams, hasData bool, report T) ReportResponse[T] {
	return ReportResponse[T]{From: params.From, To: params.To, HasData: hasData, Report: report}
}

// PendingPurchaseRatesResponse lists completed transactions lacking a final purchase rate.
type PendingPurchaseRatesResponse struct {
	Count        int                  `json:"count"`
	Transactions []domain.Transaction `json:"transactions"`
}
