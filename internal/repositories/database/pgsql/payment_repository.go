package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/SscSPs/remesas_backend/internal/models"
	"github.com/SscSPs/remesas_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxPaymentRepository persists payments from the Colombia administrator to the Venezuela administrator.
type PgxPaymentRepository struct {
	BaseRepository
}

func newPgxPaymentRepository(pool *pgxpool.Pool) portsrepo.PaymentRepository {
	return &PgxPaymentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PaymentRepository = (*PgxPaymentRepository)(nil)

// SavePayment inserts a new payment.
func (r *PgxPaymentRepository) SavePayment(ctx context.Context, payment domain.VenezuelaPayment) error {
	m := mapping.ToModelVenezuelaPayment(payment)
	query := `
		INSERT INTO venezuela_payments (payment_id, amount, payment_date, notes, proof_path, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query, m.PaymentID, m.Amount, m.PaymentDate, m.Notes, m.ProofPath, m.CreatedBy, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: payment with ID %s already exists", apperrors.ErrDuplicate, m.PaymentID)
		}
		return fmt.Errorf("failed to save payment %s: %w", m.PaymentID, err)
	}
	return nil
}

// ListPayments retrieves the payments dated in range, newest first.
func (r *PgxPaymentRepository) ListPayments(ctx context.Context, rng domain.DateRange) ([]domain.VenezuelaPayment, error) {
	w := &whereBuilder{}
	w.addRange("payment_date", rng)
	query := `
		SELECT payment_id, amount, payment_date, notes, proof_path, created_by, created_at
		FROM venezuela_payments ` + w.clause() + `
		ORDER BY payment_date DESC, created_at DESC;
	`
	rows, err := r.Pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.VenezuelaPayment{}
	for rows.Next() {
		var m models.VenezuelaPayment
		if err := rows.Scan(&m.PaymentID, &m.Amount, &m.PaymentDate, &m.Notes, &m.ProofPath, &m.CreatedBy, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}
		payments = append(payments, mapping.ToDomainVenezuelaPayment(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// SumPayments totals the payments dated in range.
func (r *PgxPaymentRepository) SumPayments(ctx context.Context, rng domain.DateRange) (decimal.Decimal, error) {
	w := &whereBuilder{}
	w.addRange("payment_date", rng)
	query := `SELECT COALESCE(SUM(amount), 0) FROM venezuela_payments ` + w.clause() + `;`

	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, w.args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum payments: %w", err)
	}
	return total, nil
}
