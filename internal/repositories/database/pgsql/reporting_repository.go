package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/SscSPs/remesas_backend/internal/models"
	"github.com/SscSPs/remesas_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// reportingRepository implements the ReportingRepository interface
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// ListCommissionRows retrieves COMPLETADO transactions created by sellers in range.
func (r *reportingRepository) ListCommissionRows(ctx context.Context, rng domain.DateRange) ([]domain.CommissionRow, error) {
	w := &whereBuilder{}
	w.add("t.status = " + w.arg(string(domain.StatusCompleted)))
	w.add("u.role = " + w.arg(string(domain.RoleSeller)))
	w.addRange("t.created_at", rng)

	query := `
		SELECT
			t.created_by,
			u.name,
			u.admin_id,
			t.id,
			t.amount_cop,
			t.transaction_commission,
			t.is_commission_paid_to_vendor,
			t.created_at
		FROM transactions t
		JOIN users u ON u.id = t.created_by
		` + w.clause() + `
		ORDER BY t.created_at, t.id
	`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying commission rows: %w", err)
	}
	defer rows.Close()

	result := []domain.CommissionRow{}
	for rows.Next() {
		var row domain.CommissionRow
		if err := rows.Scan(
			&row.SellerID,
			&row.SellerName,
			&row.SellerAdminID,
			&row.TransactionID,
			&row.AmountCOP,
			&row.TransactionCommission,
			&row.IsCommissionPaidToVendor,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning commission row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating commission rows: %w", err)
	}
	return result, nil
}

// ListReconciledRows retrieves COMPLETADO transactions in range that carry a purchase rate.
// App clients have no users row with a seller name, so the creator ID stands in.
func (r *reportingRepository) ListReconciledRows(ctx context.Context, rng domain.DateRange) ([]domain.ReconciledRow, error) {
	w := &whereBuilder{}
	w.add("t.status = " + w.arg(string(domain.StatusCompleted)))
	w.add("t.purchase_rate IS NOT NULL")
	w.addRange("t.created_at", rng)

	query := `
		SELECT
			t.created_by,
			COALESCE(u.name, t.created_by),
			u.admin_id,
			t.id,
			t.amount_cop,
			t.amount_bs,
			t.sale_rate,
			t.purchase_rate,
			t.is_purchase_rate_set,
			t.created_at
		FROM transactions t
		LEFT JOIN users u ON u.id = t.created_by
		` + w.clause() + `
		ORDER BY t.created_at, t.id
	`

	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying reconciled rows: %w", err)
	}
	defer rows.Close()

	result := []domain.ReconciledRow{}
	for rows.Next() {
		var row domain.ReconciledRow
		if err := rows.Scan(
			&row.SellerID,
			&row.SellerName,
			&row.SellerAdminID,
			&row.TransactionID,
			&row.AmountCOP,
			&row.AmountBs,
			&row.SaleRate,
			&row.PurchaseRate,
			&row.IsPurchaseRateSet,
			&row.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning reconciled row: %w", err)
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciled rows: %w", err)
	}
	return result, nil
}

func completedWithoutFinalRate(rng domain.DateRange) *whereBuilder {
	w := &whereBuilder{}
	w.add("status = " + w.arg(string(domain.StatusCompleted)))
	w.add("is_purchase_rate_set = FALSE")
	w.addRange("created_at", rng)
	return w
}

// CountCompletedWithoutFinalRate counts COMPLETADO transactions in range still lacking a final purchase rate.
func (r *reportingRepository) CountCompletedWithoutFinalRate(ctx context.Context, rng domain.DateRange) (int, error) {
	w := completedWithoutFinalRate(rng)
	var count int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions `+w.clause(), w.args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting transactions pending purchase rate: %w", err)
	}
	return count, nil
}

// ListCompletedWithoutFinalRate lists the reconciliation worklist, oldest first.
func (r *reportingRepository) ListCompletedWithoutFinalRate(ctx context.Context, rng domain.DateRange) ([]domain.Transaction, error) {
	w := completedWithoutFinalRate(rng)
	rows, err := r.Pool.Query(ctx, `SELECT `+transactionColumns+` FROM transactions `+w.clause()+` ORDER BY created_at, id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions pending purchase rate: %w", err)
	}
	ms, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	if ms == nil {
		ms = []models.Transaction{}
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
