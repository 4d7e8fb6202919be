package dto

import "github.com/shopspring/decimal"

// SetPurchaseRateRequest attaches a purchase rate to one completed transaction.
type SetPurchaseRateRequest struct {
	PurchaseRate *decimal.Decimal `json:"purchaseRate" binding:"required"`
	Final        bool             `json:"final"`
}

// BulkPurchaseRateRequest applies one purchase rate to every eligible transaction in scope.
// Scope is the inclusive local-day range From..To, the explicit id list, or both.
type BulkPurchaseRateRequest struct {
	PurchaseRate   *decimal.Decimal `json:"purchaseRate" binding:"required"`
	Final          bool             `json:"final"`
	From           string           `json:"from"`
	To             string           `json:"to"`
	TransactionIDs []int64          `json:"transactionIDs"`
}

// BulkRemovePurchaseRateRequest clears provisional purchase rates in scope.
type BulkRemovePurchaseRateRequest struct {
	From           string  `json:"from"`
	To             string  `json:"to"`
	TransactionIDs []int64 `json:"transactionIDs"`
}

// BulkResultResponse reports how many transactions a bulk operation touched.
type BulkResultResponse struct {
	Affected       int     `json:"affected"`
	TransactionIDs []int64 `json:"transactionIDs"`
}

// ToBulkResultResponse wraps the affected ids.
func ToBulkResultResponse(ids []int64) BulkResultResponse {
	if ids == nil {
		ids = []int64{}
	}
	return BulkResultResponse{Affected: len(ids), TransactionIDs: ids}
}
