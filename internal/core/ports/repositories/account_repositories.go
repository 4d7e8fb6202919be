package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for cash accounts
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByOwner retrieves the accounts held by an administrator.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// ListAccountTransactions retrieves a page of account movements, newest first.
	ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)
}

// AccountTransactionSupport defines operations that run inside a caller-managed pgx transaction
type AccountTransactionSupport interface {
	// SaveAccountInTx inserts a new account.
	SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error

	// FindAccountByIDForUpdate selects an account and locks it for update within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// UpdateAccountBalanceInTx writes the new balance of an account.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, now time.Time) error

	// SaveAccountTransactionInTx appends an account movement.
	SaveAccountTransactionInTx(ctx context.Context, tx pgx.Tx, movement domain.AccountTransaction) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
