package dto

import (
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest defines the data needed to create a remittance.
// Exactly one of AmountCOP and AmountBs must be provided.
type CreateTransactionRequest struct {
	BeneficiaryID string           `json:"beneficiaryID" binding:"required"`
	ClientID      *string          `json:"clientID"`   // Optional walk-in client
	AmountCOP     *decimal.Decimal `json:"amountCOP"`  // Optional, derived from AmountBs when absent
	AmountBs      *decimal.Decimal `json:"amountBs"`   // Optional, derived from AmountCOP when absent
	CustomRate    *decimal.Decimal `json:"customRate"` // Optional, overrides the official sale rate
}

// UpdateTransactionRequest defines the fields a creator may change inside the edit window.
// Amounts follow the same exactly-one rule as creation when either is provided.
type UpdateTransactionRequest struct {
	AmountCOP     *decimal.Decimal `json:"amountCOP"`
	AmountBs      *decimal.Decimal `json:"amountBs"`
	CustomRate    *decimal.Decimal `json:"customRate"`
	UseOfficial   bool             `json:"useOfficialRate"` // drop a previous custom rate
	BeneficiaryID *string          `json:"beneficiaryID"`   // re-snapshot from this beneficiary
}

// ReasonRequest carries the mandatory reason for cancellations.
type ReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CompleteTransactionRequest defines the data needed to complete a transfer.
type CompleteTransactionRequest struct {
	VoucherProofPath string  `json:"voucherProofPath" binding:"required"`
	AccountID        *string `json:"accountID"` // Optional funding cash account
}

// RejectTransactionRequest defines the data needed to reject a transfer.
type RejectTransactionRequest struct {
	Reason    string  `json:"reason" binding:"required"`
	ProofPath *string `json:"proofPath"`
}

// ResendTransactionRequest defines how a rejected transfer is sent back.
// The beneficiary snapshot is only replaced when UpdateBeneficiary is true.
type ResendTransactionRequest struct {
	UpdateBeneficiary bool    `json:"updateBeneficiary"`
	BeneficiaryID     *string `json:"beneficiaryID"`
	Note              string  `json:"note"`
}

// ReplaceVoucherRequest swaps the voucher proof of a completed transfer.
type ReplaceVoucherRequest struct {
	VoucherProofPath string `json:"voucherProofPath" binding:"required"`
}

// MarkPaidByVendorRequest records the seller's COP payment.
type MarkPaidByVendorRequest struct {
	Method    string  `json:"method" binding:"required"`
	ProofPath *string `json:"proofPath"`
}

// ListTransactionsParams defines the query parameters for listing transactions.
type ListTransactionsParams struct {
	Status    string `form:"status"`
	CreatedBy string `form:"createdBy"`
	From      string `form:"from"`
	To        string `form:"to"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	domain.Transaction
	RemainingEditSeconds int  `json:"remainingEditSeconds"`
	Editable             bool `json:"editable"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction, now time.Time, window time.Duration) TransactionResponse {
	remaining := time.Duration(0)
	if txn.Status == domain.StatusPending {
		remaining = txn.RemainingEditTime(now, window)
	}
	return TransactionResponse{
		Transaction:          *txn,
		RemainingEditSeconds: int(remaining.Seconds()),
		Editable:             remaining > 0,
	}
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string, now time.Time, window time.Duration) ListTransactionsResponse {
	list := make([]TransactionResponse, len(txns))
	for i := range txns {
		list[i] = ToTransactionResponse(&txns[i], now, window)
	}
	return ListTransactionsResponse{Transactions: list, NextToken: nextToken}
}
