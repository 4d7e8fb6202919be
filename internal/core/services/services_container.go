package services

import (
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/platform/config"
)

// Collaborators groups the external dependencies the core consumes through narrow interfaces.
type Collaborators struct {
	Rates         portssvc.RateProvider
	Beneficiaries portssvc.BeneficiaryLookup
	Proofs        portssvc.ProofStorage
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, collab Collaborators) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{
		Rates:  collab.Rates,
		Proofs: collab.Proofs,
	}

	// Cash accounts first since funded completions withdraw through them
	container.CashAccount = NewCashAccountService(repos.AccountRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		collab.Rates,
		collab.Beneficiaries,
		WithEditWindow(cfg.EditWindow),
		WithCashLedger(container.CashAccount),
		WithProofStorage(collab.Proofs),
	)

	container.PurchaseRate = NewPurchaseRateService(
		repos.TransactionRepo,
		repos.ReportingRepo,
		WithPurchaseRateEditWindow(cfg.EditWindow),
	)

	container.Payment = NewPaymentService(repos.PaymentRepo, WithPaymentLocation(cfg.Location))
	container.Debt = NewDebtService(repos.ReportingRepo, repos.PaymentRepo, repos.TransactionRepo)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TransactionSvcFacade = (*transactionService)(nil)
	_ portssvc.CashAccountSvcFacade = (*cashAccountService)(nil)
	_ portssvc.DebtSvc              = (*debtService)(nil)
)
