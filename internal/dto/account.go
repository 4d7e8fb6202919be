package dto

import (
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a cash account.
type CreateAccountRequest struct {
	Name           string           `json:"name" binding:"required"`
	InitialBalance *decimal.Decimal `json:"initialBalance"` // Optional, recorded as a deposit
}

// AccountMovementRequest defines a deposit or withdrawal.
type AccountMovementRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Description   string           `json:"description"`
	TransactionID *int64           `json:"transactionID"` // Optional related remittance
}

// ListAccountTransactionsParams defines the query parameters for account movements.
type ListAccountTransactionsParams struct {
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken string `form:"nextToken"`
}

// ListAccountsResponse wraps a list of cash accounts.
type ListAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
}

// ListAccountTransactionsResponse wraps a page of account movements.
type ListAccountTransactionsResponse struct {
	Movements []domain.AccountTransaction `json:"movements"`
	NextToken *string                     `json:"nextToken,omitempty"`
}

// MovementResponse returns the updated account together with the movement that changed it.
type MovementResponse struct {
	Account  domain.Account            `json:"account"`
	Movement domain.AccountTransaction `json:"movement"`
}
