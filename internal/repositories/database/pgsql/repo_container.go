package pgsql

import (
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo: newPgxTransactionRepository(dbPool),
		AccountRepo:     newPgxAccountRepository(dbPool),
		PaymentRepo:     newPgxPaymentRepository(dbPool),
		ReportingRepo:   newReportingRepository(dbPool),
		RateRepo:        newPgxRateRepository(dbPool),
		BeneficiaryRepo: newPgxBeneficiaryRepository(dbPool),
	}
}
