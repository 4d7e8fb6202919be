package services

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/dto"
)

// TransactionReaderSvc defines read operations. Every read materializes lapsed edit windows.
type TransactionReaderSvc interface {
	// GetTransaction retrieves a transaction visible to the actor.
	GetTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions visible to the actor.
	ListTransactions(ctx context.Context, actor domain.Actor, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// GetHistory retrieves the audit trail of a transaction, oldest first.
	GetHistory(ctx context.Context, actor domain.Actor, transactionID int64) ([]domain.TransactionHistory, error)
}

// TransactionCreatorSvc defines operations available to the creator of a transaction.
type TransactionCreatorSvc interface {
	// CreateTransaction records a new PENDIENTE transfer.
	CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// StartEditing refreshes the edit window of a PENDIENTE transaction.
	StartEditing(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error)

	// UpdateTransaction edits amounts, rate or beneficiary inside the edit window.
	UpdateTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error)

	// CancelBySeller cancels a PENDIENTE transaction inside the edit window.
	CancelBySeller(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error)

	// ResendTransaction sends a RECHAZADO transaction back to PENDIENTE_VENEZUELA.
	ResendTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.ResendTransactionRequest) (*domain.Transaction, error)

	// MarkPaidByVendor records the seller's COP payment for a completed transfer.
	MarkPaidByVendor(ctx context.Context, actor domain.Actor, transactionID int64, req dto.MarkPaidByVendorRequest) (*domain.Transaction, error)
}

// TransactionAdminSvc defines operations reserved to administrators.
type TransactionAdminSvc interface {
	// CancelByAdmin force-cancels a transaction from any non-cancelled state.
	CancelByAdmin(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error)

	// CompleteTransaction marks a transfer as paid out, optionally withdrawing from a cash account
	// in the same unit of work.
	CompleteTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.CompleteTransactionRequest) (*domain.Transaction, error)

	// RejectTransaction rejects a transfer with a mandatory reason.
	RejectTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.RejectTransactionRequest) (*domain.Transaction, error)

	// ReplaceVoucher swaps the voucher proof of a completed transfer.
	ReplaceVoucher(ctx context.Context, actor domain.Actor, transactionID int64, voucherPath string) (*domain.Transaction, error)
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionCreatorSvc
	TransactionAdminSvc
}
