package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TransactionRepo TransactionRepositoryWithTx
	AccountRepo     AccountRepositoryWithTx
	PaymentRepo     PaymentRepository
	ReportingRepo   ReportingRepository
	RateRepo        RateReader
	BeneficiaryRepo BeneficiaryReader
}
