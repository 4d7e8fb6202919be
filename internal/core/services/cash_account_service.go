package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// cashAccountService implements the CashAccountSvcFacade interface
type cashAccountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
}

// CashAccountOption is a functional option for configuring the cash account service
type CashAccountOption func(*cashAccountService)

// WithCashAccountClock overrides the clock used for timestamps
func WithCashAccountClock(clock func() time.Time) CashAccountOption {
	return func(s *cashAccountService) {
		s.Clock = clock
	}
}

// NewCashAccountService creates a new cash account service with the provided options
func NewCashAccountService(repo portsrepo.AccountRepositoryWithTx, options ...CashAccountOption) portssvc.CashAccountSvcFacade {
	svc := &cashAccountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.CashAccountSvcFacade = (*cashAccountService)(nil)

func (s *cashAccountService) CreateAccount(ctx context.Context, actor domain.Actor, req dto.CreateAccountRequest) (*domain.Account, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators hold cash accounts", apperrors.ErrForbidden)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: account name is required", apperrors.ErrValidation)
	}
	initial := decimal.Zero
	if req.InitialBalance != nil {
		if req.InitialBalance.IsNegative() {
			return nil, fmt.Errorf("%w: initial balance cannot be negative", apperrors.ErrValidation)
		}
		initial = *req.InitialBalance
	}

	now := s.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      name,
		Balance:   decimal.Zero,
		OwnerID:   actor.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := runInTx(ctx, s.accountRepo, func(tx pgx.Tx) error {
		if err := s.accountRepo.SaveAccountInTx(ctx, tx, account); err != nil {
			return err
		}
		if !initial.IsPositive() {
			return nil
		}
		_, err := s.recordMovementInTx(ctx, tx, actor, &account, domain.Deposit, initial, nil, "Saldo inicial")
		return err
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to create cash account", slog.String("owner_id", actor.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Cash account created",
		slog.String("account_id", account.AccountID),
		slog.String("balance", account.Balance.String()))
	return &account, nil
}

func (s *cashAccountService) GetAccount(ctx context.Context, actor domain.Actor, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find cash account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if err := checkAccountOwner(actor, account); err != nil {
		return nil, err
	}
	return account, nil
}

func (s *cashAccountService) ListAccounts(ctx context.Context, actor domain.Actor) ([]domain.Account, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators hold cash accounts", apperrors.ErrForbidden)
	}
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, actor.ID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list cash accounts", slog.String("owner_id", actor.ID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

func (s *cashAccountService) ListAccountTransactions(ctx context.Context, actor domain.Actor, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	if _, err := s.GetAccount(ctx, actor, accountID); err != nil {
		return nil, nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	movements, next, err := s.accountRepo.ListAccountTransactions(ctx, accountID, limit, nextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list account movements", slog.String("account_id", accountID))
		return nil, nil, err
	}
	if movements == nil {
		movements = []domain.AccountTransaction{}
	}
	return movements, next, nil
}

func (s *cashAccountService) Deposit(ctx context.Context, actor domain.Actor, accountID string, req dto.AccountMovementRequest) (*domain.Account, *domain.AccountTransaction, error) {
	return s.move(ctx, actor, accountID, domain.Deposit, req)
}

func (s *cashAccountService) Withdraw(ctx context.Context, actor domain.Actor, accountID string, req dto.AccountMovementRequest) (*domain.Account, *domain.AccountTransaction, error) {
	return s.move(ctx, actor, accountID, domain.Withdrawal, req)
}

func (s *cashAccountService) move(ctx context.Context, actor domain.Actor, accountID string, kind domain.AccountTransactionType, req dto.AccountMovementRequest) (*domain.Account, *domain.AccountTransaction, error) {
	if req.Amount == nil {
		return nil, nil, fmt.Errorf("%w: amount is required", apperrors.ErrValidation)
	}

	var (
		account  *domain.Account
		movement *domain.AccountTransaction
	)
	err := runInTx(ctx, s.accountRepo, func(tx pgx.Tx) error {
		var err error
		account, movement, err = s.applyInTx(ctx, tx, actor, accountID, kind, *req.Amount, req.TransactionID, req.Description)
		return err
	})
	if err != nil {
		if !errors.Is(err, apperrors.ErrInsufficientFunds) && !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to apply account movement",
				slog.String("account_id", accountID),
				slog.String("type", string(kind)))
		}
		return nil, nil, err
	}

	s.LogInfo(ctx, "Account movement recorded",
		slog.String("account_id", accountID),
		slog.String("type", string(kind)),
		slog.String("amount", movement.Amount.String()),
		slog.String("balance_after", movement.BalanceAfter.String()))
	return account, movement, nil
}

// WithdrawInTx is the withdrawal used by transfer completion; the caller owns tx.
func (s *cashAccountService) WithdrawInTx(ctx context.Context, tx pgx.Tx, actor domain.Actor, accountID string, amount decimal.Decimal, transactionID *int64, description string) (*domain.Account, *domain.AccountTransaction, error) {
	return s.applyInTx(ctx, tx, actor, accountID, domain.Withdrawal, amount, transactionID, description)
}

func (s *cashAccountService) applyInTx(ctx context.Context, tx pgx.Tx, actor domain.Actor, accountID string, kind domain.AccountTransactionType, amount decimal.Decimal, transactionID *int64, description string) (*domain.Account, *domain.AccountTransaction, error) {
	account, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return nil, nil, err
	}
	if err := checkAccountOwner(actor, account); err != nil {
		return nil, nil, err
	}
	movement, err := s.recordMovementInTx(ctx, tx, actor, account, kind, amount, transactionID, description)
	if err != nil {
		return nil, nil, err
	}
	return account, movement, nil
}

// recordMovementInTx checks funds, writes the new balance and appends the movement.
// account must already be locked (or freshly inserted) inside tx; it is updated in place.
func (s *cashAccountService) recordMovementInTx(ctx context.Context, tx pgx.Tx, actor domain.Actor, account *domain.Account, kind domain.AccountTransactionType, amount decimal.Decimal, transactionID *int64, description string) (*domain.AccountTransaction, error) {
	amount = amount.Round(2)
	newBalance, err := account.ApplyMovement(kind, amount)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	movement := domain.AccountTransaction{
		AccountTransactionID: uuid.NewString(),
		AccountID:            account.AccountID,
		Type:                 kind,
		Amount:               amount,
		TransactionID:        transactionID,
		BalanceBefore:        account.Balance,
		BalanceAfter:         newBalance,
		Description:          description,
		CreatedBy:            actor.ID,
		CreatedAt:            now,
	}

	if err := s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, account.AccountID, newBalance, now); err != nil {
		return nil, err
	}
	if err := s.accountRepo.SaveAccountTransactionInTx(ctx, tx, movement); err != nil {
		return nil, err
	}

	account.Balance = newBalance
	account.UpdatedAt = now
	return &movement, nil
}

func checkAccountOwner(actor domain.Actor, account *domain.Account) error {
	if account.OwnerID != actor.ID {
		return fmt.Errorf("%w: account %s belongs to another administrator", apperrors.ErrForbidden, account.AccountID)
	}
	return nil
}
