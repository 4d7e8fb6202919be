package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/core/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

var (
	t0 = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	colombiaSeller = domain.Actor{ID: "seller-1", Name: "Ana", Role: domain.RoleSeller, CommissionRate: dp("5"),
		Affiliation: &domain.AdminAffiliation{AdminID: "admin-co", Country: domain.Colombia}}
	venezuelaSeller = domain.Actor{ID: "seller-2", Name: "Luis", Role: domain.RoleSeller, CommissionRate: dp("5"),
		Affiliation: &domain.AdminAffiliation{AdminID: "admin-ve", Country: domain.Venezuela}}
	adminVE = domain.Actor{ID: "admin-ve", Role: domain.RoleAdminVenezuela}
	adminCO = domain.Actor{ID: "admin-co", Role: domain.RoleAdminColombia}
)

func sampleBeneficiary() *domain.Beneficiary {
	return &domain.Beneficiary{
		BeneficiaryID: "ben-1",
		OwnerID:       "seller-1",
		BeneficiarySnapshot: domain.BeneficiarySnapshot{
			FullName:      "María Pérez",
			DocumentID:    "V-12345678",
			BankName:      "Banesco",
			AccountNumber: "01340000000000000001",
			AccountType:   "CORRIENTE",
			Phone:         "04141234567",
		},
	}
}

func storedTxn(status domain.TransactionStatus, createdAt time.Time) *domain.Transaction {
	b := sampleBeneficiary()
	return &domain.Transaction{
		ID:                    42,
		CreatedBy:             colombiaSeller.ID,
		BeneficiaryID:         &b.BeneficiaryID,
		Beneficiary:           b.Snapshot(),
		AmountCOP:             d("1000"),
		AmountBs:              d("128.21"),
		SaleRate:              d("7.8"),
		TransactionCommission: d("5"),
		Status:                status,
		CreatedAt:             createdAt,
		UpdatedAt:             createdAt,
	}
}

type TransactionServiceTestSuite struct {
	suite.Suite
	repo          *MockTransactionRepository
	rates         *MockRateProvider
	beneficiaries *MockBeneficiaryLookup
	ledger        *MockCashLedger
	proofs        *MockProofStorage
	now           time.Time
	service       portssvc.TransactionSvcFacade
	ctx           context.Context
}

func (suite *TransactionServiceTestSuite) SetupTest() {
	suite.repo = new(MockTransactionRepository)
	suite.rates = new(MockRateProvider)
	suite.beneficiaries = new(MockBeneficiaryLookup)
	suite.ledger = new(MockCashLedger)
	suite.proofs = new(MockProofStorage)
	suite.now = t0
	suite.ctx = context.Background()
	suite.service = services.NewTransactionService(suite.repo, suite.rates, suite.beneficiaries,
		services.WithTransactionClock(func() time.Time { return suite.now }),
		services.WithCashLedger(suite.ledger),
		services.WithProofStorage(suite.proofs),
	)
}

func (suite *TransactionServiceTestSuite) TearDownTest() {
	suite.repo.AssertExpectations(suite.T())
	suite.rates.AssertExpectations(suite.T())
	suite.beneficiaries.AssertExpectations(suite.T())
	suite.ledger.AssertExpectations(suite.T())
	suite.proofs.AssertExpectations(suite.T())
}

func TestTransactionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

// --- Create ---

func (suite *TransactionServiceTestSuite) TestCreate_OfficialRateDerivesBs() {
	suite.beneficiaries.On("GetBeneficiary", suite.ctx, "ben-1").Return(sampleBeneficiary(), nil).Once()
	suite.rates.On("GetCurrentRate", suite.ctx).Return(&domain.RateQuote{SaleRate: d("7.8"), AsOf: t0}, nil).Once()
	suite.repo.On("SaveTransaction", suite.ctx, mock.AnythingOfType("*domain.Transaction"), mock.AnythingOfType("*domain.TransactionHistory")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Transaction).ID = 7
			h := args.Get(2).(*domain.TransactionHistory)
			suite.Equal(domain.StatusPending, h.Status)
			suite.Equal(colombiaSeller.ID, h.ChangedBy)
		}).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, colombiaSeller, dto.CreateTransactionRequest{
		BeneficiaryID: "ben-1",
		AmountCOP:     dp("1000"),
	})

	suite.Require().NoError(err)
	suite.Equal(int64(7), txn.ID)
	suite.Equal(domain.StatusPending, txn.Status)
	suite.True(txn.AmountBs.Equal(d("128.21")), "amountBs = %s", txn.AmountBs)
	suite.True(txn.SaleRate.Equal(d("7.8")))
	suite.False(txn.HasCustomRate)
	suite.True(txn.TransactionCommission.Equal(d("5")))
	suite.Equal("María Pérez", txn.Beneficiary.FullName)
}

func (suite *TransactionServiceTestSuite) TestCreate_VenezuelaSellerCustomRateGetsFourPercent() {
	b := sampleBeneficiary()
	b.OwnerID = venezuelaSeller.ID
	suite.beneficiaries.On("GetBeneficiary", suite.ctx, "ben-1").Return(b, nil).Once()
	suite.repo.On("SaveTransaction", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.CreateTransaction(suite.ctx, venezuelaSeller, dto.CreateTransactionRequest{
		BeneficiaryID: "ben-1",
		AmountBs:      dp("100"),
		CustomRate:    dp("8"),
	})

	suite.Require().NoError(err)
	suite.True(txn.HasCustomRate)
	suite.True(txn.AmountCOP.Equal(d("800")))
	suite.True(txn.TransactionCommission.Equal(d("4")))
	suite.rates.AssertNotCalled(suite.T(), "GetCurrentRate", mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreate_RejectsBothAmounts() {
	suite.beneficiaries.On("GetBeneficiary", suite.ctx, "ben-1").Return(sampleBeneficiary(), nil).Once()

	_, err := suite.service.CreateTransaction(suite.ctx, colombiaSeller, dto.CreateTransactionRequest{
		BeneficiaryID: "ben-1",
		AmountCOP:     dp("1000"),
		AmountBs:      dp("100"),
		CustomRate:    dp("8"),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.repo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCreate_AdminsCannotCreate() {
	_, err := suite.service.CreateTransaction(suite.ctx, adminCO, dto.CreateTransactionRequest{BeneficiaryID: "ben-1", AmountCOP: dp("1")})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Commission freeze ---

func (suite *TransactionServiceTestSuite) TestUpdate_KeepsFrozenCommission() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(2 * time.Minute)

	// The seller's profile changed to 10% after creation.
	changed := colombiaSeller
	changed.CommissionRate = dp("10")

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.TransactionCommission.Equal(d("5")) && t.AmountCOP.Equal(d("2000"))
	})).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusPending && h.ChangedBy == changed.ID
	})).Return(nil).Once()

	txn, err := suite.service.UpdateTransaction(suite.ctx, changed, 42, dto.UpdateTransactionRequest{AmountCOP: dp("2000")})

	suite.Require().NoError(err)
	suite.True(txn.TransactionCommission.Equal(d("5")))
	suite.True(txn.AmountBs.Equal(d("256.41")), "amountBs = %s", txn.AmountBs)
	suite.Require().NotNil(txn.LastEditedAt)
	suite.Equal(suite.now, *txn.LastEditedAt)
}

func (suite *TransactionServiceTestSuite) TestUpdate_SwitchToCustomRateAppliesVenezuelaCommission() {
	stored := storedTxn(domain.StatusPending, t0)
	stored.CreatedBy = venezuelaSeller.ID
	suite.now = t0.Add(time.Minute)

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.HasCustomRate && t.TransactionCommission.Equal(d("4"))
	})).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.UpdateTransaction(suite.ctx, venezuelaSeller, 42, dto.UpdateTransactionRequest{CustomRate: dp("9")})

	suite.Require().NoError(err)
	suite.True(txn.HasCustomRate)
	suite.True(txn.TransactionCommission.Equal(d("4")), "commission = %s", txn.TransactionCommission)
	suite.True(txn.AmountBs.Equal(d("111.11")), "amountBs = %s", txn.AmountBs)
}

func (suite *TransactionServiceTestSuite) TestUpdate_SwitchBackToOfficialRestoresSellerCommission() {
	stored := storedTxn(domain.StatusPending, t0)
	stored.CreatedBy = venezuelaSeller.ID
	stored.SaleRate, stored.HasCustomRate, stored.TransactionCommission = d("9"), true, d("4")
	suite.now = t0.Add(time.Minute)

	suite.rates.On("GetCurrentRate", suite.ctx).Return(&domain.RateQuote{SaleRate: d("8")}, nil).Once()
	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.UpdateTransaction(suite.ctx, venezuelaSeller, 42, dto.UpdateTransactionRequest{UseOfficial: true})

	suite.Require().NoError(err)
	suite.False(txn.HasCustomRate)
	suite.True(txn.SaleRate.Equal(d("8")))
	suite.True(txn.TransactionCommission.Equal(d("5")), "commission = %s", txn.TransactionCommission)
}

func (suite *TransactionServiceTestSuite) TestUpdate_RejectsCustomRateFinerThanStored() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(time.Minute)

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()

	_, err := suite.service.UpdateTransaction(suite.ctx, colombiaSeller, 42, dto.UpdateTransactionRequest{CustomRate: dp("7.1234567")})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.repo.AssertNotCalled(suite.T(), "UpdateTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- Edit window guards ---

func (suite *TransactionServiceTestSuite) TestCancelBySeller_ExpiredWindowNamesTheGuard() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(5*time.Minute + time.Second)

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("AdvanceIfPending", suite.ctx, int64(42), suite.now, suite.now.Add(-domain.DefaultEditWindow), mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusPendingVenezuela && h.ChangedBy == domain.SystemActorID
	})).Return(true, nil).Once()

	_, err := suite.service.CancelBySeller(suite.ctx, colombiaSeller, 42, "cliente desistió")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Contains(err.Error(), "edit window expired")
	suite.repo.AssertNotCalled(suite.T(), "UpdateTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.repo.AssertNumberOfCalls(suite.T(), "AdvanceIfPending", 1)
}

func (suite *TransactionServiceTestSuite) TestStartEditing_ExpiredWindowRecordsAutoAdvance() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(7 * time.Minute)

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("AdvanceIfPending", suite.ctx, int64(42), suite.now, suite.now.Add(-domain.DefaultEditWindow), mock.Anything).Return(false, nil).Once()
	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(storedTxn(domain.StatusPendingVenezuela, t0), nil).Once()

	_, err := suite.service.StartEditing(suite.ctx, colombiaSeller, 42)

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	suite.Contains(err.Error(), "edit window expired")
	suite.repo.AssertNotCalled(suite.T(), "UpdateTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestUpdate_OpenWindowNeverAutoAdvances() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(time.Minute)

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()

	_, err := suite.service.UpdateTransaction(suite.ctx, colombiaSeller, 42, dto.UpdateTransactionRequest{AmountCOP: dp("-5")})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.repo.AssertNotCalled(suite.T(), "AdvanceIfPending", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestCancelBySeller_WrongActor() {
	stored := storedTxn(domain.StatusPending, t0)
	other := venezuelaSeller

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()

	_, err := suite.service.CancelBySeller(suite.ctx, other, 42, "no")

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestCancelBySeller_RequiresReason() {
	_, err := suite.service.CancelBySeller(suite.ctx, colombiaSeller, 42, "   ")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *TransactionServiceTestSuite) TestStartEditing_ResetsWindow() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(4 * time.Minute)

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.StartEditing(suite.ctx, colombiaSeller, 42)

	suite.Require().NoError(err)
	suite.True(txn.EditWindowOpen(t0.Add(4*time.Minute+4*time.Minute+59*time.Second), domain.DefaultEditWindow))
	suite.repo.AssertNotCalled(suite.T(), "AppendHistoryInTx", mock.Anything, mock.Anything, mock.Anything)
}

// --- Auto-advance on read ---

func (suite *TransactionServiceTestSuite) TestGet_AutoAdvanceIsRecordedOnce() {
	suite.now = t0.Add(6 * time.Minute)
	advanced := storedTxn(domain.StatusPendingVenezuela, t0)

	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(storedTxn(domain.StatusPending, t0), nil).Once()
	suite.repo.On("AdvanceIfPending", suite.ctx, int64(42), suite.now, suite.now.Add(-domain.DefaultEditWindow), mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusPendingVenezuela && h.ChangedBy == domain.SystemActorID
	})).Return(true, nil).Once()
	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(advanced, nil).Once()

	first, err := suite.service.GetTransaction(suite.ctx, colombiaSeller, 42)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingVenezuela, first.Status)

	second, err := suite.service.GetTransaction(suite.ctx, colombiaSeller, 42)
	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingVenezuela, second.Status)

	suite.repo.AssertNumberOfCalls(suite.T(), "AdvanceIfPending", 1)
}

func (suite *TransactionServiceTestSuite) TestGet_ConcurrentReaderLosesTheRace() {
	suite.now = t0.Add(6 * time.Minute)

	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(storedTxn(domain.StatusPending, t0), nil).Once()
	suite.repo.On("AdvanceIfPending", suite.ctx, int64(42), suite.now, suite.now.Add(-domain.DefaultEditWindow), mock.Anything).Return(false, nil).Once()
	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(storedTxn(domain.StatusCancelledAdmin, t0), nil).Once()

	txn, err := suite.service.GetTransaction(suite.ctx, colombiaSeller, 42)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelledAdmin, txn.Status)
}

func (suite *TransactionServiceTestSuite) TestGet_OtherSellerForbidden() {
	suite.repo.On("FindTransactionByID", suite.ctx, int64(42)).Return(storedTxn(domain.StatusPending, t0), nil).Once()

	_, err := suite.service.GetTransaction(suite.ctx, venezuelaSeller, 42)

	suite.ErrorIs(err, apperrors.ErrForbidden)
}

func (suite *TransactionServiceTestSuite) TestList_SellerScopedToOwnTransactions() {
	suite.repo.On("ListTransactions", suite.ctx, mock.MatchedBy(func(f domain.TransactionFilter) bool {
		return f.CreatedBy != nil && *f.CreatedBy == colombiaSeller.ID && f.Limit == 20
	})).Return([]domain.Transaction{*storedTxn(domain.StatusCompleted, t0)}, nil, nil).Once()

	txns, next, err := suite.service.ListTransactions(suite.ctx, colombiaSeller, domain.TransactionFilter{})

	suite.Require().NoError(err)
	suite.Nil(next)
	suite.Len(txns, 1)
}

// --- Completion ---

func (suite *TransactionServiceTestSuite) TestComplete_InsufficientFundsLeavesStatusUnchanged() {
	stored := storedTxn(domain.StatusPendingVenezuela, t0)
	suite.now = t0.Add(time.Hour)

	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.ledger.On("WithdrawInTx", suite.ctx, mock.Anything, adminVE, "acct-1", decEq("128.21"), mock.Anything, mock.Anything).
		Return(nil, nil, apperrors.ErrInsufficientFunds).Once()

	txn, err := suite.service.CompleteTransaction(suite.ctx, adminVE, 42, dto.CompleteTransactionRequest{
		VoucherProofPath: "vouchers/v1.png",
		AccountID:        strPtr("acct-1"),
	})

	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.repo.AssertNotCalled(suite.T(), "UpdateTransactionInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "AppendHistoryInTx", mock.Anything, mock.Anything, mock.Anything)
	suite.repo.AssertNotCalled(suite.T(), "Commit", mock.Anything, mock.Anything)
	suite.repo.AssertCalled(suite.T(), "Rollback", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestComplete_FundedSuccess() {
	stored := storedTxn(domain.StatusPendingVenezuela, t0)
	suite.now = t0.Add(time.Hour)

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.ledger.On("WithdrawInTx", suite.ctx, mock.Anything, adminVE, "acct-1", decEq("128.21"), mock.Anything, "Transacción #42").
		Return(&domain.Account{AccountID: "acct-1"}, &domain.AccountTransaction{AccountID: "acct-1", Amount: d("128.21")}, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(t domain.Transaction) bool {
		return t.Status == domain.StatusCompleted && t.CompletedAt != nil && *t.VoucherProofPath == "vouchers/v1.png"
	})).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusCompleted && h.ChangedBy == adminVE.ID
	})).Return(nil).Once()

	txn, err := suite.service.CompleteTransaction(suite.ctx, adminVE, 42, dto.CompleteTransactionRequest{
		VoucherProofPath: "vouchers/v1.png",
		AccountID:        strPtr("acct-1"),
	})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
}

func (suite *TransactionServiceTestSuite) TestComplete_AutoAdvancesLapsedPendingFirst() {
	stored := storedTxn(domain.StatusPending, t0)
	suite.now = t0.Add(10 * time.Minute)

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusPendingVenezuela && h.ChangedBy == domain.SystemActorID
	})).Return(nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusCompleted
	})).Return(nil).Once()

	txn, err := suite.service.CompleteTransaction(suite.ctx, adminVE, 42, dto.CompleteTransactionRequest{VoucherProofPath: "v.png"})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, txn.Status)
}

func (suite *TransactionServiceTestSuite) TestComplete_OnlyReceivingAdmin() {
	_, err := suite.service.CompleteTransaction(suite.ctx, adminCO, 42, dto.CompleteTransactionRequest{VoucherProofPath: "v.png"})
	suite.ErrorIs(err, apperrors.ErrForbidden)
}

// --- Reject and resend ---

func (suite *TransactionServiceTestSuite) TestRejectThenResend_KeepsSnapshot() {
	stored := storedTxn(domain.StatusPendingVenezuela, t0)
	before := stored.Beneficiary
	suite.now = t0.Add(time.Hour)

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil)
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil)
	suite.proofs.On("Delete", suite.ctx, "rejections/r1.png").Return(nil).Once()

	rejected, err := suite.service.RejectTransaction(suite.ctx, adminVE, 42, dto.RejectTransactionRequest{
		Reason:    "wrong account",
		ProofPath: strPtr("rejections/r1.png"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.StatusRejected, rejected.Status)
	suite.Require().NotNil(rejected.RejectionReason)
	suite.Equal("wrong account", *rejected.RejectionReason)

	suite.now = t0.Add(2 * time.Hour)
	resent, err := suite.service.ResendTransaction(suite.ctx, colombiaSeller, 42, dto.ResendTransactionRequest{})

	suite.Require().NoError(err)
	suite.Equal(domain.StatusPendingVenezuela, resent.Status)
	suite.Nil(resent.RejectionReason)
	suite.Nil(resent.RejectionProofPath)
	suite.Equal(before, resent.Beneficiary)
	suite.Require().NotNil(resent.LastEditedAt)
	suite.Equal(suite.now, *resent.LastEditedAt)
	suite.beneficiaries.AssertNotCalled(suite.T(), "GetBeneficiary", mock.Anything, mock.Anything)
}

func (suite *TransactionServiceTestSuite) TestResend_WithBeneficiaryUpdateReSnapshots() {
	stored := storedTxn(domain.StatusRejected, t0)
	stored.RejectionReason = strPtr("wrong account")
	updated := sampleBeneficiary()
	updated.AccountNumber = "01020000000000000009"

	suite.beneficiaries.On("GetBeneficiary", suite.ctx, "ben-1").Return(updated, nil).Once()
	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	resent, err := suite.service.ResendTransaction(suite.ctx, colombiaSeller, 42, dto.ResendTransactionRequest{UpdateBeneficiary: true})

	suite.Require().NoError(err)
	suite.Equal("01020000000000000009", resent.Beneficiary.AccountNumber)
}

func (suite *TransactionServiceTestSuite) TestResend_OnlyFromRejected() {
	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(storedTxn(domain.StatusCompleted, t0), nil).Once()

	_, err := suite.service.ResendTransaction(suite.ctx, colombiaSeller, 42, dto.ResendTransactionRequest{})

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

// --- Admin override and voucher ---

func (suite *TransactionServiceTestSuite) TestCancelByAdmin_FromCompleted() {
	suite.now = t0.Add(time.Hour)
	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(storedTxn(domain.StatusCompleted, t0), nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.MatchedBy(func(h domain.TransactionHistory) bool {
		return h.Status == domain.StatusCancelledAdmin && h.Note == "Cancelada por el administrador: duplicada"
	})).Return(nil).Once()

	txn, err := suite.service.CancelByAdmin(suite.ctx, adminCO, 42, "duplicada")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusCancelledAdmin, txn.Status)
}

func (suite *TransactionServiceTestSuite) TestCancelByAdmin_AlreadyCancelled() {
	expectTx(&suite.repo.mockTxManager, false)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(storedTxn(domain.StatusCancelledSeller, t0), nil).Once()

	_, err := suite.service.CancelByAdmin(suite.ctx, adminCO, 42, "x")

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
}

func (suite *TransactionServiceTestSuite) TestReplaceVoucher_DeletesOldProofBestEffort() {
	stored := storedTxn(domain.StatusCompleted, t0)
	stored.VoucherProofPath = strPtr("vouchers/old.png")

	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(stored, nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.proofs.On("Delete", suite.ctx, "vouchers/old.png").Return(apperrors.ErrNotFound).Once()

	txn, err := suite.service.ReplaceVoucher(suite.ctx, adminVE, 42, "vouchers/new.png")

	suite.Require().NoError(err)
	suite.Equal("vouchers/new.png", *txn.VoucherProofPath)
}

func (suite *TransactionServiceTestSuite) TestMarkPaidByVendor() {
	expectTx(&suite.repo.mockTxManager, true)
	suite.repo.On("FindTransactionByIDForUpdate", suite.ctx, mock.Anything, int64(42)).Return(storedTxn(domain.StatusCompleted, t0), nil).Once()
	suite.repo.On("UpdateTransactionInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()
	suite.repo.On("AppendHistoryInTx", suite.ctx, mock.Anything, mock.Anything).Return(nil).Once()

	txn, err := suite.service.MarkPaidByVendor(suite.ctx, colombiaSeller, 42, dto.MarkPaidByVendorRequest{Method: "Nequi"})

	suite.Require().NoError(err)
	suite.True(txn.IsPaidByVendor)
	suite.Equal("Nequi", *txn.VendorPaymentMethod)
}
