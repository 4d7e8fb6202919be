package services

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CashAccountReaderSvc defines read operations for cash accounts
type CashAccountReaderSvc interface {
	// GetAccount retrieves an account owned by the actor.
	GetAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error)

	// ListAccounts retrieves the actor's accounts.
	ListAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error)

	// ListAccountTransactions retrieves a page of movements of an account owned by the actor.
	ListAccountTransactions(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error)
}

// CashAccountWriterSvc defines the balance mutators
type CashAccountWriterSvc interface {
	// CreateAccount opens an account; a positive initial balance is recorded as a deposit.
	CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error)

	// Deposit adds funds to an account.
	Deposit(ctx context.Context, actor domain.Actor, accountID string, req dto.AccountMovementRequest) (*domain.Account, *domain.AccountTransaction, error)

	// Withdraw removes funds, failing with ErrInsufficientFunds before mutating anything.
	Withdraw(ctx context.Context, actor domain.Actor, accountID string, req dto.AccountMovementRequest) (*domain.Account, *domain.AccountTransaction, error)
}

// CashAccountLedgerTxSvc lets other services take part in a balance change inside their own unit of work.
type CashAccountLedgerTxSvc interface {
	// WithdrawInTx locks the account row, checks funds and records the movement using tx.
	WithdrawInTx(ctx context.Context, tx pgx.Tx, actor domain.Actor, accountID string, amount decimal.Decimal, transactionID *int64, description string) (*domain.Account, *domain.AccountTransaction, error)
}

// CashAccountSvcFacade combines all cash-account service interfaces
type CashAccountSvcFacade interface {
	CashAccountReaderSvc
	CashAccountWriterSvc
	CashAccountLedgerTxSvc
}
