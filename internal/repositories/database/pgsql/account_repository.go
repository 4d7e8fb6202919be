package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/SscSPs/remesas_backend/internal/models"
	"github.com/SscSPs/remesas_backend/internal/utils/mapping"
	"github.com/SscSPs/remesas_backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, name, balance, owner_id, created_at, updated_at`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for cash account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.Account, error) {
	var m models.Account
	err := row.Scan(&m.AccountID, &m.Name, &m.Balance, &m.OwnerID, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

// SaveAccountInTx inserts a new account.
func (r *PgxAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, name, balance, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := tx.Exec(ctx, query, m.AccountID, m.Name, m.Balance, m.OwnerID, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account with ID %s already exists", apperrors.ErrDuplicate, m.AccountID)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	m, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// FindAccountByIDForUpdate retrieves an account and locks the row. Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 FOR UPDATE;`
	m, err := scanAccount(tx.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock account %s: %w", accountID, err)
	}
	d := mapping.ToDomainAccount(m)
	return &d, nil
}

// ListAccountsByOwner retrieves the accounts held by an administrator, ordered by name.
func (r *PgxAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = $1 ORDER BY name, account_id;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	var ms []models.Account
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row for owner %s: %w", ownerID, err)
		}
		ms = append(ms, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows for owner %s: %w", ownerID, rows.Err())
	}
	return mapping.ToDomainAccountSlice(ms), nil
}

// UpdateAccountBalanceInTx writes the new balance of a locked account.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, now time.Time) error {
	query := `UPDATE accounts SET balance = $2, updated_at = $3 WHERE account_id = $1;`
	cmdTag, err := tx.Exec(ctx, query, accountID, balance, now)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
	}
	return nil
}

// SaveAccountTransactionInTx appends a movement to the account ledger.
func (r *PgxAccountRepository) SaveAccountTransactionInTx(ctx context.Context, tx pgx.Tx, movement domain.AccountTransaction) error {
	m := mapping.ToModelAccountTransaction(movement)
	query := `
		INSERT INTO account_transactions (account_transaction_id, account_id, type, amount, transaction_id,
			balance_before, balance_after, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.AccountTransactionID, m.AccountID, m.Type, m.Amount, m.TransactionID,
		m.BalanceBefore, m.BalanceAfter, m.Description, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account movement %s already exists", apperrors.ErrDuplicate, m.AccountTransactionID)
		}
		return fmt.Errorf("failed to save movement for account %s: %w", m.AccountID, err)
	}
	return nil
}

// ListAccountTransactions retrieves a page of an account's movements, newest first.
func (r *PgxAccountRepository) ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	w := &whereBuilder{}
	w.add("account_id = " + w.arg(accountID))
	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		w.add("(created_at, account_transaction_id) < (" + w.arg(lastCreatedAt) + ", " + w.arg(lastID) + ")")
	}

	query := `
		SELECT account_transaction_id, account_id, type, amount, transaction_id,
			balance_before, balance_after, description, created_by, created_at
		FROM account_transactions ` + w.clause() + `
		ORDER BY created_at DESC, account_transaction_id DESC
		LIMIT ` + w.arg(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query movements for account "+accountID, err)
	}
	defer rows.Close()

	ms := make([]models.AccountTransaction, 0, fetchLimit)
	for rows.Next() {
		var m models.AccountTransaction
		if err := rows.Scan(
			&m.AccountTransactionID, &m.AccountID, &m.Type, &m.Amount, &m.TransactionID,
			&m.BalanceBefore, &m.BalanceAfter, &m.Description, &m.CreatedBy, &m.CreatedAt,
		); err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan movement row for account "+accountID, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating movement rows for account "+accountID, err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		last := ms[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.AccountTransactionID)
		nextTokenVal = &token
		ms = ms[:limit]
	}

	movements := make([]domain.AccountTransaction, len(ms))
	for i, m := range ms {
		movements[i] = mapping.ToDomainAccountTransaction(m)
	}
	return movements, nextTokenVal, nil
}
