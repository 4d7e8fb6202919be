package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/SscSPs/remesas_backend/internal/models"
	"github.com/SscSPs/remesas_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxRateRepository reads the official rates published by the back office.
type PgxRateRepository struct {
	BaseRepository
}

func newPgxRateRepository(pool *pgxpool.Pool) portsrepo.RateReader {
	return &PgxRateRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RateReader = (*PgxRateRepository)(nil)

// FindCurrentRate returns the most recently published rate.
func (r *PgxRateRepository) FindCurrentRate(ctx context.Context) (*domain.RateQuote, error) {
	query := `SELECT rate_id, sale_rate, created_at FROM rates ORDER BY created_at DESC, rate_id DESC LIMIT 1;`
	var m models.Rate
	if err := r.Pool.QueryRow(ctx, query).Scan(&m.RateID, &m.SaleRate, &m.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no official rate published", apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read current rate: %w", err)
	}
	return &domain.RateQuote{SaleRate: m.SaleRate, AsOf: m.CreatedAt}, nil
}

// PgxBeneficiaryRepository reads beneficiary records.
type PgxBeneficiaryRepository struct {
	BaseRepository
}

func newPgxBeneficiaryRepository(pool *pgxpool.Pool) portsrepo.BeneficiaryReader {
	return &PgxBeneficiaryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BeneficiaryReader = (*PgxBeneficiaryRepository)(nil)

// FindBeneficiaryByID retrieves a beneficiary by its ID.
func (r *PgxBeneficiaryRepository) FindBeneficiaryByID(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error) {
	query := `
		SELECT beneficiary_id, owner_id, full_name, document_id, bank_name, account_number, account_type, phone, is_pago_movil
		FROM beneficiaries
		WHERE beneficiary_id = $1;
	`
	var m models.Beneficiary
	err := r.Pool.QueryRow(ctx, query, beneficiaryID).Scan(
		&m.BeneficiaryID, &m.OwnerID, &m.FullName, &m.DocumentID, &m.BankName,
		&m.AccountNumber, &m.AccountType, &m.Phone, &m.IsPagoMovil,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find beneficiary %s: %w", beneficiaryID, err)
	}
	d := mapping.ToDomainBeneficiary(m)
	return &d, nil
}
