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
	"github.com/SscSPs/remesas_backend/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// History notes written to the audit trail.
const (
	noteCreated        = "Transacción creada"
	noteAutoAdvanced   = "Avance automático: ventana de edición vencida"
	noteEdited         = "Transacción editada"
	noteCancelSeller   = "Cancelada por el vendedor"
	noteCancelAdmin    = "Cancelada por el administrador"
	noteCompleted      = "Transacción completada"
	noteRejected       = "Transacción rechazada"
	noteResent         = "Transacción reenviada"
	noteVoucherChanged = "Comprobante reemplazado"
	noteVendorPaid     = "Pago del vendedor registrado"
)

// transactionService implements the TransactionSvcFacade interface
type transactionService struct {
	transactionWriter
	rates         portssvc.RateProvider
	beneficiaries portssvc.BeneficiaryLookup
	ledger        portssvc.CashAccountLedgerTxSvc
	proofs        portssvc.ProofStorage
}

// TransactionOption is a functional option for configuring the transaction service
type TransactionOption func(*transactionService)

// WithEditWindow overrides the creator's edit window
func WithEditWindow(window time.Duration) TransactionOption {
	return func(s *transactionService) {
		if window > 0 {
			s.editWindow = window
		}
	}
}

// WithTransactionClock overrides the clock used for guards and timestamps
func WithTransactionClock(clock func() time.Time) TransactionOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// WithCashLedger enables funded completions
func WithCashLedger(ledger portssvc.CashAccountLedgerTxSvc) TransactionOption {
	return func(s *transactionService) {
		s.ledger = ledger
	}
}

// WithProofStorage enables cleanup of replaced proofs
func WithProofStorage(store portssvc.ProofStorage) TransactionOption {
	return func(s *transactionService) {
		s.proofs = store
	}
}

// NewTransactionService creates a new transaction service with the provided options
func NewTransactionService(
	repo portsrepo.TransactionRepositoryWithTx,
	rates portssvc.RateProvider,
	beneficiaries portssvc.BeneficiaryLookup,
	options ...TransactionOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		transactionWriter: newTransactionWriter(repo),
		rates:             rates,
		beneficiaries:     beneficiaries,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) CreateTransaction(ctx context.Context, actor domain.Actor, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	if !actor.CanCreateTransactions() {
		return nil, fmt.Errorf("%w: role %s cannot create transactions", apperrors.ErrForbidden, actor.Role)
	}

	beneficiary, err := s.lookupBeneficiary(ctx, actor, req.BeneficiaryID)
	if err != nil {
		return nil, err
	}

	rate, isCustom, err := s.resolveRate(ctx, req.CustomRate)
	if err != nil {
		return nil, err
	}
	amountCOP, amountBs, err := accounting.ResolveAmounts(req.AmountCOP, req.AmountBs, rate)
	if err != nil {
		return nil, err
	}

	clientID := req.ClientID
	if actor.Role == domain.RoleClient {
		clientID = &actor.ID
	}
	beneficiaryID := beneficiary.BeneficiaryID

	now := s.Now()
	txn := domain.Transaction{
		CreatedBy:             actor.ID,
		ClientID:              clientID,
		BeneficiaryID:         &beneficiaryID,
		Beneficiary:           beneficiary.Snapshot(),
		AmountCOP:             amountCOP,
		AmountBs:              amountBs,
		SaleRate:              rate,
		HasCustomRate:         isCustom,
		TransactionCommission: accounting.CommissionFor(actor, isCustom),
		Status:                domain.StatusPending,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	history := s.newHistory(0, domain.StatusPending, noteCreated, actor.ID, now)

	if err := s.txnRepo.SaveTransaction(ctx, &txn, &history); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("created_by", actor.ID))
		return nil, err
	}

	s.LogInfo(ctx, "Transaction created",
		slog.Int64("transaction_id", txn.ID),
		slog.String("amount_cop", txn.AmountCOP.String()),
		slog.String("amount_bs", txn.AmountBs.String()),
		slog.String("sale_rate", txn.SaleRate.String()),
		slog.Bool("custom_rate", txn.HasCustomRate),
		slog.String("commission", txn.TransactionCommission.String()))
	return &txn, nil
}

func (s *transactionService) GetTransaction(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.Int64("transaction_id", transactionID))
		}
		return nil, err
	}
	if err := checkVisible(actor, txn); err != nil {
		return nil, err
	}
	return s.materializeOnRead(ctx, txn)
}

func (s *transactionService) ListTransactions(ctx context.Context, actor domain.Actor, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	if !actor.IsAdmin() {
		filter.CreatedBy = &actor.ID
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	txns, next, err := s.txnRepo.ListTransactions(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, nil, err
	}

	result := make([]domain.Transaction, 0, len(txns))
	for i := range txns {
		txn, err := s.materializeOnRead(ctx, &txns[i])
		if err != nil {
			return nil, nil, err
		}
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		result = append(result, *txn)
	}
	return result, next, nil
}

func (s *transactionService) GetHistory(ctx context.Context, actor domain.Actor, transactionID int64) ([]domain.TransactionHistory, error) {
	if _, err := s.GetTransaction(ctx, actor, transactionID); err != nil {
		return nil, err
	}
	history, err := s.txnRepo.ListHistory(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transaction history", slog.Int64("transaction_id", transactionID))
		return nil, err
	}
	if history == nil {
		history = []domain.TransactionHistory{}
	}
	return history, nil
}

func (s *transactionService) StartEditing(ctx context.Context, actor domain.Actor, transactionID int64) (*domain.Transaction, error) {
	return s.mutate(ctx, actor, transactionID, "start editing", false, func(t *domain.Transaction, now time.Time, _ pgx.Tx) (string, error) {
		if err := checkCreator(actor, t); err != nil {
			return "", err
		}
		if err := t.CheckEditable(now, s.editWindow); err != nil {
			return "", err
		}
		t.LastEditedAt = &now
		return "", nil
	})
}

func (s *transactionService) UpdateTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.UpdateTransactionRequest) (*domain.Transaction, error) {
	var (
		official    *domain.RateQuote
		beneficiary *domain.Beneficiary
		err         error
	)
	if req.CustomRate == nil && req.UseOfficial {
		if official, err = s.currentRate(ctx); err != nil {
			return nil, err
		}
	}
	if req.BeneficiaryID != nil {
		if beneficiary, err = s.lookupBeneficiary(ctx, actor, *req.BeneficiaryID); err != nil {
			return nil, err
		}
	}

	return s.mutate(ctx, actor, transactionID, "update", false, func(t *domain.Transaction, now time.Time, _ pgx.Tx) (string, error) {
		if err := checkCreator(actor, t); err != nil {
			return "", err
		}
		if err := t.CheckEditable(now, s.editWindow); err != nil {
			return "", err
		}

		rate, isCustom := t.SaleRate, t.HasCustomRate
		switch {
		case req.CustomRate != nil:
			if err := accounting.ValidateCustomRate(*req.CustomRate); err != nil {
				return "", err
			}
			rate, isCustom = *req.CustomRate, true
		case official != nil:
			rate, isCustom = official.SaleRate, false
		}

		amountCOP, amountBs := req.AmountCOP, req.AmountBs
		if amountCOP == nil && amountBs == nil {
			amountCOP = &t.AmountCOP
		}
		cop, bs, err := accounting.ResolveAmounts(amountCOP, amountBs, rate)
		if err != nil {
			return "", err
		}
		// Switching rate mode re-applies the custom-rate commission rule.
		if isCustom != t.HasCustomRate {
			t.TransactionCommission = accounting.CommissionFor(actor, isCustom)
		}
		t.AmountCOP, t.AmountBs, t.SaleRate, t.HasCustomRate = cop, bs, rate, isCustom

		if beneficiary != nil {
			id := beneficiary.BeneficiaryID
			t.BeneficiaryID = &id
			t.Beneficiary = beneficiary.Snapshot()
		}
		t.LastEditedAt = &now
		return noteEdited, nil
	})
}

func (s *transactionService) CancelBySeller(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error) {
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, transactionID, "cancel", false, func(t *domain.Transaction, now time.Time, _ pgx.Tx) (string, error) {
		if err := checkCreator(actor, t); err != nil {
			return "", err
		}
		if err := t.CheckEditable(now, s.editWindow); err != nil {
			return "", err
		}
		if err := t.CheckTransition(domain.StatusCancelledSeller); err != nil {
			return "", err
		}
		t.Status = domain.StatusCancelledSeller
		return noteCancelSeller + ": " + reason, nil
	})
}

func (s *transactionService) CancelByAdmin(ctx context.Context, actor domain.Actor, transactionID int64, reason string) (*domain.Transaction, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can force-cancel", apperrors.ErrForbidden)
	}
	reason, err := requireReason(reason)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, transactionID, "admin cancel", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if err := t.CheckTransition(domain.StatusCancelledAdmin); err != nil {
			return "", err
		}
		t.Status = domain.StatusCancelledAdmin
		return noteCancelAdmin + ": " + reason, nil
	})
}

func (s *transactionService) CompleteTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.CompleteTransactionRequest) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "complete transactions", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	voucher := strings.TrimSpace(req.VoucherProofPath)
	if voucher == "" {
		return nil, fmt.Errorf("%w: voucher proof is required to complete", apperrors.ErrValidation)
	}
	if req.AccountID != nil && s.ledger == nil {
		return nil, fmt.Errorf("%w: funded completion is not available", apperrors.ErrValidation)
	}

	return s.mutate(ctx, actor, transactionID, "complete", true, func(t *domain.Transaction, now time.Time, tx pgx.Tx) (string, error) {
		if err := t.CheckTransition(domain.StatusCompleted); err != nil {
			return "", err
		}
		note := noteCompleted
		if req.AccountID != nil {
			// The withdrawal shares tx, so a failure here leaves the transaction untouched.
			_, movement, err := s.ledger.WithdrawInTx(ctx, tx, actor, *req.AccountID, t.AmountBs, &t.ID, fmt.Sprintf("Transacción #%d", t.ID))
			if err != nil {
				return "", err
			}
			note = fmt.Sprintf("%s; cuenta %s debitada %s Bs", noteCompleted, movement.AccountID, movement.Amount.StringFixed(2))
		}
		t.Status = domain.StatusCompleted
		t.CompletedAt = &now
		t.VoucherProofPath = &voucher
		return note, nil
	})
}

func (s *transactionService) RejectTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.RejectTransactionRequest) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "reject transactions", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	reason, err := requireReason(req.Reason)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, actor, transactionID, "reject", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if err := t.CheckTransition(domain.StatusRejected); err != nil {
			return "", err
		}
		t.Status = domain.StatusRejected
		t.RejectionReason = &reason
		t.RejectionProofPath = req.ProofPath
		return noteRejected + ": " + reason, nil
	})
}

func (s *transactionService) ResendTransaction(ctx context.Context, actor domain.Actor, transactionID int64, req dto.ResendTransactionRequest) (*domain.Transaction, error) {
	var beneficiary *domain.Beneficiary
	if req.UpdateBeneficiary && req.BeneficiaryID != nil {
		var err error
		if beneficiary, err = s.lookupBeneficiary(ctx, actor, *req.BeneficiaryID); err != nil {
			return nil, err
		}
	}

	var oldProof *string
	txn, err := s.mutate(ctx, actor, transactionID, "resend", true, func(t *domain.Transaction, now time.Time, _ pgx.Tx) (string, error) {
		if err := checkCreator(actor, t); err != nil {
			return "", err
		}
		if t.Status != domain.StatusRejected {
			return "", fmt.Errorf("%w: transaction %d is %s; only %s transactions can be resent",
				apperrors.ErrInvalidTransition, t.ID, t.Status, domain.StatusRejected)
		}

		if req.UpdateBeneficiary {
			if beneficiary == nil {
				if t.BeneficiaryID == nil {
					return "", fmt.Errorf("%w: beneficiaryID is required to update the beneficiary", apperrors.ErrValidation)
				}
				b, err := s.lookupBeneficiary(ctx, actor, *t.BeneficiaryID)
				if err != nil {
					return "", err
				}
				beneficiary = b
			}
			id := beneficiary.BeneficiaryID
			t.BeneficiaryID = &id
			t.Beneficiary = beneficiary.Snapshot()
		}

		oldProof = t.RejectionProofPath
		t.RejectionReason = nil
		t.RejectionProofPath = nil
		t.LastEditedAt = &now
		t.Status = domain.StatusPendingVenezuela

		note := noteResent
		if n := strings.TrimSpace(req.Note); n != "" {
			note += ": " + n
		}
		return note, nil
	})
	if err != nil {
		return nil, err
	}
	s.cleanupProof(ctx, s.proofs, oldProof)
	return txn, nil
}

func (s *transactionService) ReplaceVoucher(ctx context.Context, actor domain.Actor, transactionID int64, voucherPath string) (*domain.Transaction, error) {
	if err := s.RequireRole(ctx, actor, "replace vouchers", domain.RoleAdminVenezuela); err != nil {
		return nil, err
	}
	voucherPath = strings.TrimSpace(voucherPath)
	if voucherPath == "" {
		return nil, fmt.Errorf("%w: voucher proof is required", apperrors.ErrValidation)
	}

	var oldProof *string
	txn, err := s.mutate(ctx, actor, transactionID, "replace voucher", true, func(t *domain.Transaction, _ time.Time, _ pgx.Tx) (string, error) {
		if t.Status != domain.StatusCompleted {
			return "", fmt.Errorf("%w: transaction %d is %s; vouchers can only be replaced on %s transactions",
				apperrors.ErrInvalidTransition, t.ID, t.Status, domain.StatusCompleted)
		}
		if t.VoucherProofPath != nil && *t.VoucherProofPath != voucherPath {
			oldProof = t.VoucherProofPath
		}
		t.VoucherProofPath = &voucherPath
		return noteVoucherChanged, nil
	})
	if err != nil {
		return nil, err
	}
	s.cleanupProof(ctx, s.proofs, oldProof)
	return txn, nil
}

func (s *transactionService) MarkPaidByVendor(ctx context.Context, actor domain.Actor, transactionID int64, req dto.MarkPaidByVendorRequest) (*domain.Transaction, error) {
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return nil, fmt.Errorf("%w: payment method is required", apperrors.ErrValidation)
	}
	return s.mutate(ctx, actor, transactionID, "mark paid by vendor", true, func(t *domain.Transaction, now time.Time, _ pgx.Tx) (string, error) {
		if err := checkCreator(actor, t); err != nil {
			return "", err
		}
		if t.Status != domain.StatusCompleted {
			return "", fmt.Errorf("%w: transaction %d is %s; only %s transactions can be marked as paid",
				apperrors.ErrInvalidTransition, t.ID, t.Status, domain.StatusCompleted)
		}
		if t.IsPaidByVendor {
			return "", fmt.Errorf("%w: transaction %d is already marked as paid", apperrors.ErrInvalidTransition, t.ID)
		}
		t.IsPaidByVendor = true
		t.PaidByVendorAt = &now
		t.VendorPaymentMethod = &method
		t.VendorPaymentProofPath = req.ProofPath
		return noteVendorPaid + " (" + method + ")", nil
	})
}

func (s *transactionService) currentRate(ctx context.Context) (*domain.RateQuote, error) {
	quote, err := s.rates.GetCurrentRate(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to get official rate")
		return nil, err
	}
	return quote, nil
}

func (s *transactionService) resolveRate(ctx context.Context, customRate *decimal.Decimal) (decimal.Decimal, bool, error) {
	if customRate != nil {
		return accounting.ActiveRate(customRate, domain.RateQuote{})
	}
	quote, err := s.currentRate(ctx)
	if err != nil {
		return decimal.Zero, false, err
	}
	return accounting.ActiveRate(nil, *quote)
}

func (s *transactionService) lookupBeneficiary(ctx context.Context, actor domain.Actor, beneficiaryID string) (*domain.Beneficiary, error) {
	if strings.TrimSpace(beneficiaryID) == "" {
		return nil, fmt.Errorf("%w: beneficiaryID is required", apperrors.ErrValidation)
	}
	beneficiary, err := s.beneficiaries.GetBeneficiary(ctx, beneficiaryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up beneficiary", slog.String("beneficiary_id", beneficiaryID))
		}
		return nil, err
	}
	if actor.Role == domain.RoleClient && beneficiary.OwnerID != actor.ID {
		return nil, fmt.Errorf("%w: beneficiary %s belongs to another client", apperrors.ErrForbidden, beneficiaryID)
	}
	return beneficiary, nil
}

func checkVisible(actor domain.Actor, t *domain.Transaction) error {
	if actor.IsAdmin() || t.IsOwnedBy(actor) {
		return nil
	}
	if t.ClientID != nil && *t.ClientID == actor.ID {
		return nil
	}
	return fmt.Errorf("%w: transaction %d belongs to another user", apperrors.ErrForbidden, t.ID)
}

func checkCreator(actor domain.Actor, t *domain.Transaction) error {
	if !t.IsOwnedBy(actor) {
		return fmt.Errorf("%w: only the creator of transaction %d can do this", apperrors.ErrForbidden, t.ID)
	}
	return nil
}

func requireReason(reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return "", fmt.Errorf("%w: a reason is required", apperrors.ErrValidation)
	}
	return reason, nil
}

func isGuardError(err error) bool {
	return errors.Is(err, apperrors.ErrInvalidTransition) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrInsufficientFunds) ||
		errors.Is(err, apperrors.ErrNotFound)
}
