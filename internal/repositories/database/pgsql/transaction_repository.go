package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
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

const transactionColumns = `
	id, created_by, client_id, beneficiary_id,
	beneficiary_full_name, beneficiary_document_id, beneficiary_bank_name, beneficiary_account_number,
	beneficiary_account_type, beneficiary_phone, beneficiary_is_pago_movil,
	amount_cop, amount_bs, sale_rate, purchase_rate, is_purchase_rate_set, has_custom_rate, transaction_commission,
	status, last_edited_at, rejection_reason, voucher_proof_path, rejection_proof_path, completed_at,
	is_paid_by_vendor, paid_by_vendor_at, vendor_payment_method, vendor_payment_proof_path,
	is_commission_paid_to_vendor, commission_paid_at, created_at, updated_at`

const (
	bulkRateSetNote     = "Tasa de compra establecida en lote"
	bulkRateRemovedNote = "Tasa de compra eliminada en lote"
)

// PgxTransactionRepository persists remittances and their audit trail.
type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.ID, &m.CreatedBy, &m.ClientID, &m.BeneficiaryID,
		&m.BeneficiaryFullName, &m.BeneficiaryDocumentID, &m.BeneficiaryBankName, &m.BeneficiaryAccountNumber,
		&m.BeneficiaryAccountType, &m.BeneficiaryPhone, &m.BeneficiaryIsPagoMovil,
		&m.AmountCOP, &m.AmountBs, &m.SaleRate, &m.PurchaseRate, &m.IsPurchaseRateSet, &m.HasCustomRate, &m.TransactionCommission,
		&m.Status, &m.LastEditedAt, &m.RejectionReason, &m.VoucherProofPath, &m.RejectionProofPath, &m.CompletedAt,
		&m.IsPaidByVendor, &m.PaidByVendorAt, &m.VendorPaymentMethod, &m.VendorPaymentProofPath,
		&m.IsCommissionPaidToVendor, &m.CommissionPaidAt, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

func collectTransactions(rows pgx.Rows) ([]models.Transaction, error) {
	defer rows.Close()
	var result []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return result, nil
}

// SaveTransaction inserts the transaction and its creation history row in one database transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, history *domain.TransactionHistory) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	m := mapping.ToModelTransaction(*txn)
	query := `
		INSERT INTO transactions (
			created_by, client_id, beneficiary_id,
			beneficiary_full_name, beneficiary_document_id, beneficiary_bank_name, beneficiary_account_number,
			beneficiary_account_type, beneficiary_phone, beneficiary_is_pago_movil,
			amount_cop, amount_bs, sale_rate, purchase_rate, is_purchase_rate_set, has_custom_rate, transaction_commission,
			status, last_edited_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id;
	`
	var id int64
	err = tx.QueryRow(ctx, query,
		m.CreatedBy, m.ClientID, m.BeneficiaryID,
		m.BeneficiaryFullName, m.BeneficiaryDocumentID, m.BeneficiaryBankName, m.BeneficiaryAccountNumber,
		m.BeneficiaryAccountType, m.BeneficiaryPhone, m.BeneficiaryIsPagoMovil,
		m.AmountCOP, m.AmountBs, m.SaleRate, m.PurchaseRate, m.IsPurchaseRateSet, m.HasCustomRate, m.TransactionCommission,
		m.Status, m.LastEditedAt, m.CreatedAt, m.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction", err)
	}

	history.TransactionID = id
	if err := r.AppendHistoryInTx(ctx, tx, *history); err != nil {
		return err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return err
	}
	txn.ID = id
	return nil
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %d: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// FindTransactionByIDForUpdate selects a transaction and locks its row until tx ends.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE;`
	m, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock transaction %d: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactions retrieves a page of transactions ordered by (created_at, id) descending.
// CreatedBy matches both the creator and the app client the transaction was made for.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	w := &whereBuilder{}
	if filter.Status != nil {
		// PENDIENTE rows whose window lapsed are advanced on read, so they must be fetched too.
		if *filter.Status == domain.StatusPendingVenezuela {
			w.add("status IN (" + w.arg(string(domain.StatusPending)) + ", " + w.arg(string(domain.StatusPendingVenezuela)) + ")")
		} else {
			w.add("status = " + w.arg(string(*filter.Status)))
		}
	}
	if filter.CreatedBy != nil {
		p := w.arg(*filter.CreatedBy)
		w.add("(created_by = " + p + " OR client_id = " + p + ")")
	}
	w.addRange("created_at", filter.Range)

	if filter.NextToken != nil && *filter.NextToken != "" {
		lastCreatedAt, key, decodeErr := pagination.DecodeToken(*filter.NextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		lastID, convErr := strconv.ParseInt(key, 10, 64)
		if convErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", convErr)
		}
		w.add("(created_at, id) < (" + w.arg(lastCreatedAt) + ", " + w.arg(lastID) + ")")
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions ` + w.clause() +
		` ORDER BY created_at DESC, id DESC LIMIT ` + w.arg(fetchLimit) + `;`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	results, err := collectTransactions(rows)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to read transactions", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, strconv.FormatInt(last.ID, 10))
		nextTokenVal = &token
		results = results[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// UpdateTransactionInTx writes every mutable column of txn.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions SET
			client_id = $2, beneficiary_id = $3,
			beneficiary_full_name = $4, beneficiary_document_id = $5, beneficiary_bank_name = $6,
			beneficiary_account_number = $7, beneficiary_account_type = $8, beneficiary_phone = $9,
			beneficiary_is_pago_movil = $10,
			amount_cop = $11, amount_bs = $12, sale_rate = $13, purchase_rate = $14, is_purchase_rate_set = $15,
			has_custom_rate = $16, transaction_commission = $17,
			status = $18, last_edited_at = $19, rejection_reason = $20, voucher_proof_path = $21,
			rejection_proof_path = $22, completed_at = $23,
			is_paid_by_vendor = $24, paid_by_vendor_at = $25, vendor_payment_method = $26, vendor_payment_proof_path = $27,
			is_commission_paid_to_vendor = $28, commission_paid_at = $29, updated_at = $30
		WHERE id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.ID, m.ClientID, m.BeneficiaryID,
		m.BeneficiaryFullName, m.BeneficiaryDocumentID, m.BeneficiaryBankName,
		m.BeneficiaryAccountNumber, m.BeneficiaryAccountType, m.BeneficiaryPhone,
		m.BeneficiaryIsPagoMovil,
		m.AmountCOP, m.AmountBs, m.SaleRate, m.PurchaseRate, m.IsPurchaseRateSet,
		m.HasCustomRate, m.TransactionCommission,
		m.Status, m.LastEditedAt, m.RejectionReason, m.VoucherProofPath,
		m.RejectionProofPath, m.CompletedAt,
		m.IsPaidByVendor, m.PaidByVendorAt, m.VendorPaymentMethod, m.VendorPaymentProofPath,
		m.IsCommissionPaidToVendor, m.CommissionPaidAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction %d: %w", txn.ID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// AppendHistoryInTx appends one audit row.
func (r *PgxTransactionRepository) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, history domain.TransactionHistory) error {
	m := mapping.ToModelTransactionHistory(history)
	query := `
		INSERT INTO transaction_history (history_id, transaction_id, status, note, changed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err := tx.Exec(ctx, query, m.HistoryID, m.TransactionID, m.Status, m.Note, m.ChangedBy, m.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: history row %s already exists", apperrors.ErrDuplicate, m.HistoryID)
		}
		return fmt.Errorf("failed to append history for transaction %d: %w", m.TransactionID, err)
	}
	return nil
}

// ListHistory retrieves the audit trail of a transaction, oldest first.
func (r *PgxTransactionRepository) ListHistory(ctx context.Context, transactionID int64) ([]domain.TransactionHistory, error) {
	query := `
		SELECT history_id, transaction_id, status, note, changed_by, created_at
		FROM transaction_history
		WHERE transaction_id = $1
		ORDER BY created_at, history_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query history for transaction %d: %w", transactionID, err)
	}
	defer rows.Close()

	history := []domain.TransactionHistory{}
	for rows.Next() {
		var m models.TransactionHistory
		if err := rows.Scan(&m.HistoryID, &m.TransactionID, &m.Status, &m.Note, &m.ChangedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		history = append(history, mapping.ToDomainTransactionHistory(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating history rows: %w", err)
	}
	return history, nil
}

// AdvanceIfPending performs the conditional auto-advance. Concurrent readers race on the
// status and window predicates, so exactly one of them sees a row affected and writes the
// history row, and none of them advances a window a seller refreshed after cutoff.
func (r *PgxTransactionRepository) AdvanceIfPending(ctx context.Context, transactionID int64, now, cutoff time.Time, history domain.TransactionHistory) (bool, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	w := &whereBuilder{}
	query := "UPDATE transactions SET status = " + w.arg(string(domain.StatusPendingVenezuela)) +
		", updated_at = " + w.arg(now)
	lapsedPendingScope(w, transactionID, cutoff)
	cmdTag, err := tx.Exec(ctx, query+" "+w.clause()+";", w.args...)
	if err != nil {
		return false, fmt.Errorf("failed to advance transaction %d: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return false, nil
	}

	if err := r.AppendHistoryInTx(ctx, tx, history); err != nil {
		return false, err
	}
	if err := r.Commit(ctx, tx); err != nil {
		return false, err
	}
	return true, nil
}

// lapsedPendingScope restricts w to transactionID while it is PENDIENTE and its edit
// window started at or before cutoff.
func lapsedPendingScope(w *whereBuilder, transactionID int64, cutoff time.Time) {
	w.add("id = " + w.arg(transactionID))
	w.add("status = " + w.arg(string(domain.StatusPending)))
	w.add("COALESCE(last_edited_at, created_at) <= " + w.arg(cutoff))
}

// purchaseRateScope restricts w to COMPLETADO transactions matching filter.
func purchaseRateScope(w *whereBuilder, filter domain.PurchaseRateFilter) {
	w.add("status = " + w.arg(string(domain.StatusCompleted)))
	w.addRange("created_at", filter.Range)
	if len(filter.TransactionIDs) > 0 {
		w.add("id = ANY(" + w.arg(filter.TransactionIDs) + ")")
	}
}

// bulkUpdateWithHistory runs a set-based UPDATE and writes one history row per affected transaction
// in the same statement.
func (r *PgxTransactionRepository) bulkUpdateWithHistory(ctx context.Context, w *whereBuilder, set string, note, actorID string, now time.Time) ([]int64, error) {
	notePos := w.arg(note)
	actorPos := w.arg(actorID)
	nowPos := w.arg(now)
	query := `
		WITH updated AS (
			UPDATE transactions SET ` + set + `, updated_at = ` + nowPos + `
			` + w.clause() + `
			RETURNING id, status
		), audit AS (
			INSERT INTO transaction_history (history_id, transaction_id, status, note, changed_by, created_at)
			SELECT gen_random_uuid()::text, id, status, ` + notePos + `, ` + actorPos + `, ` + nowPos + ` FROM updated
		)
		SELECT id FROM updated ORDER BY id;
	`
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to run bulk purchase rate update", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan bulk update id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bulk update ids: %w", err)
	}
	return ids, nil
}

// BulkSetPurchaseRate sets rate on every matching COMPLETADO transaction that has no purchase rate yet.
func (r *PgxTransactionRepository) BulkSetPurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, rate decimal.Decimal, final bool, actorID string, now time.Time) ([]int64, error) {
	w := &whereBuilder{}
	ratePos := w.arg(rate)
	finalPos := w.arg(final)
	purchaseRateScope(w, filter)
	w.add("purchase_rate IS NULL")

	note := fmt.Sprintf("%s: %s", bulkRateSetNote, rate.String())
	if final {
		note += " (final)"
	}
	return r.bulkUpdateWithHistory(ctx, w, "purchase_rate = "+ratePos+", is_purchase_rate_set = "+finalPos, note, actorID, now)
}

// BulkRemovePurchaseRate clears provisional purchase rates; final rates are left untouched.
func (r *PgxTransactionRepository) BulkRemovePurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, actorID string, now time.Time) ([]int64, error) {
	w := &whereBuilder{}
	purchaseRateScope(w, filter)
	w.add("purchase_rate IS NOT NULL")
	w.add("is_purchase_rate_set = FALSE")

	return r.bulkUpdateWithHistory(ctx, w, "purchase_rate = NULL, is_purchase_rate_set = FALSE", bulkRateRemovedNote, actorID, now)
}

// MarkCommissionsPaid flags the unpaid commissions of a seller's COMPLETADO transactions in range.
func (r *PgxTransactionRepository) MarkCommissionsPaid(ctx context.Context, sellerID string, rng domain.DateRange, now time.Time) (int64, error) {
	w := &whereBuilder{}
	nowPos := w.arg(now)
	w.add("created_by = " + w.arg(sellerID))
	w.add("status = " + w.arg(string(domain.StatusCompleted)))
	w.add("is_commission_paid_to_vendor = FALSE")
	w.addRange("created_at", rng)

	query := `UPDATE transactions SET is_commission_paid_to_vendor = TRUE, commission_paid_at = ` + nowPos +
		`, updated_at = ` + nowPos + ` ` + w.clause() + `;`
	cmdTag, err := r.Pool.Exec(ctx, query, w.args...)
	if err != nil {
		return 0, fmt.Errorf("failed to mark commissions paid for seller %s: %w", sellerID, err)
	}
	return cmdTag.RowsAffected(), nil
}
