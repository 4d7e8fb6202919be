package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations for remittance transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its numeric ID.
	FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions ordered newest first.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)

	// ListHistory retrieves the audit trail of a transaction, oldest first.
	ListHistory(ctx context.Context, transactionID int64) ([]domain.TransactionHistory, error)
}

// TransactionWriter defines write operations outside an explicit unit of work
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction and its creation history row atomically.
	// The generated ID is written back into txn and history.
	SaveTransaction(ctx context.Context, txn *domain.Transaction, history *domain.TransactionHistory) error

	// AdvanceIfPending moves a PENDIENTE transaction to PENDIENTE_VENEZUELA and appends
	// history only if the row was still PENDIENTE with an edit window started at or before
	// cutoff. It reports whether this call advanced it.
	AdvanceIfPending(ctx context.Context, transactionID int64, now, cutoff time.Time, history domain.TransactionHistory) (bool, error)
}

// TransactionTransactionSupport defines operations used inside a caller-managed pgx transaction
type TransactionTransactionSupport interface {
	// FindTransactionByIDForUpdate selects a transaction and locks its row.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error)

	// UpdateTransactionInTx writes every mutable column of txn.
	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// AppendHistoryInTx appends one audit row.
	AppendHistoryInTx(ctx context.Context, tx pgx.Tx, history domain.TransactionHistory) error
}

// PurchaseRateBulkWriter defines set-based reconciliation writes
type PurchaseRateBulkWriter interface {
	// BulkSetPurchaseRate sets rate on every COMPLETADO transaction without a purchase rate
	// matching filter, and returns the affected IDs.
	BulkSetPurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, rate decimal.Decimal, final bool, actorID string, now time.Time) ([]int64, error)

	// BulkRemovePurchaseRate clears provisional purchase rates matching filter and returns the affected IDs.
	BulkRemovePurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, actorID string, now time.Time) ([]int64, error)

	// MarkCommissionsPaid flags unpaid commissions of a seller's completed transactions in range as paid.
	MarkCommissionsPaid(ctx context.Context, sellerID string, r domain.DateRange, now time.Time) (int64, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
	TransactionTransactionSupport
	PurchaseRateBulkWriter
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
