package services_test

import (
	"context"
	"io"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- TransactionManager, shared by the repository mocks ---

type mockTxManager struct {
	mock.Mock
}

func (m *mockTxManager) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *mockTxManager) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockTxManager) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// MockTransactionRepository is a mock type for the TransactionRepositoryWithTx interface
type MockTransactionRepository struct {
	mockTxManager
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionRepository) ListHistory(ctx context.Context, transactionID int64) ([]domain.TransactionHistory, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TransactionHistory), args.Error(1)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, history *domain.TransactionHistory) error {
	args := m.Called(ctx, txn, history)
	return args.Error(0)
}

func (m *MockTransactionRepository) AdvanceIfPending(ctx context.Context, transactionID int64, now, cutoff time.Time, history domain.TransactionHistory) (bool, error) {
	args := m.Called(ctx, transactionID, now, cutoff, history)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID int64) (*domain.Transaction, error) {
	args := m.Called(ctx, tx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	args := m.Called(ctx, tx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) AppendHistoryInTx(ctx context.Context, tx pgx.Tx, history domain.TransactionHistory) error {
	args := m.Called(ctx, tx, history)
	return args.Error(0)
}

func (m *MockTransactionRepository) BulkSetPurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, rate decimal.Decimal, final bool, actorID string, now time.Time) ([]int64, error) {
	args := m.Called(ctx, filter, rate, final, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockTransactionRepository) BulkRemovePurchaseRate(ctx context.Context, filter domain.PurchaseRateFilter, actorID string, now time.Time) ([]int64, error) {
	args := m.Called(ctx, filter, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockTransactionRepository) MarkCommissionsPaid(ctx context.Context, sellerID string, r domain.DateRange, now time.Time) (int64, error) {
	args := m.Called(ctx, sellerID, r, now)
	return args.Get(0).(int64), args.Error(1)
}

// MockAccountRepository is a mock type for the AccountRepositoryWithTx interface
type MockAccountRepository struct {
	mockTxManager
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountTransactions(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.AccountTransaction, *string, error) {
	args := m.Called(ctx, accountID, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.AccountTransaction), next, args.Error(2)
}

func (m *MockAccountRepository) SaveAccountInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	args := m.Called(ctx, tx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, accountID string, balance decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, tx, accountID, balance, now)
	return args.Error(0)
}

func (m *MockAccountRepository) SaveAccountTransactionInTx(ctx context.Context, tx pgx.Tx, movement domain.AccountTransaction) error {
	args := m.Called(ctx, tx, movement)
	return args.Error(0)
}

// MockPaymentRepository is a mock type for the PaymentRepository interface
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) SavePayment(ctx context.Context, payment domain.VenezuelaPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) ListPayments(ctx context.Context, r domain.DateRange) ([]domain.VenezuelaPayment, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.VenezuelaPayment), args.Error(1)
}

func (m *MockPaymentRepository) SumPayments(ctx context.Context, r domain.DateRange) (decimal.Decimal, error) {
	args := m.Called(ctx, r)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) ListCommissionRows(ctx context.Context, r domain.DateRange) ([]domain.CommissionRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CommissionRow), args.Error(1)
}

func (m *MockReportingRepository) ListReconciledRows(ctx context.Context, r domain.DateRange) ([]domain.ReconciledRow, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ReconciledRow), args.Error(1)
}

func (m *MockReportingRepository) CountCompletedWithoutFinalRate(ctx context.Context, r domain.DateRange) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

func (m *MockReportingRepository) ListCompletedWithoutFinalRate(ctx context.Context, r domain.DateRange) ([]domain.Transaction, error) {
	args := m.Called(ctx, r)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

// --- Collaborators ---

type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) GetCurrentRate(ctx context.Context) (*domain.RateQuote, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

type MockBeneficiaryLookup struct {
	mock.Mock
}

func (m *MockBeneficiaryLookup) GetBeneficiary(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error) {
	args := m.Called(ctx, beneficiaryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Beneficiary), args.Error(1)
}

type MockProofStorage struct {
	mock.Mock
}

func (m *MockProofStorage) Store(ctx context.Context, file io.Reader, filename string, category domain.ProofCategory) (string, error) {
	args := m.Called(ctx, file, filename, category)
	return args.String(0), args.Error(1)
}

func (m *MockProofStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

func (m *MockProofStorage) ResolveForDisplay(ctx context.Context, path string) (string, error) {
	args := m.Called(ctx, path)
	return args.String(0), args.Error(1)
}

type MockCashLedger struct {
	mock.Mock
}

func (m *MockCashLedger) WithdrawInTx(ctx context.Context, tx pgx.Tx, actor domain.Actor, accountID string, amount decimal.Decimal, transactionID *int64, description string) (*domain.Account, *domain.AccountTransaction, error) {
	args := m.Called(ctx, tx, actor, accountID, amount, transactionID, description)
	var acct *domain.Account
	if args.Get(0) != nil {
		acct = args.Get(0).(*domain.Account)
	}
	var movement *domain.AccountTransaction
	if args.Get(1) != nil {
		movement = args.Get(1).(*domain.AccountTransaction)
	}
	return acct, movement, args.Error(2)
}

// --- helpers ---

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

// decEq matches a decimal argument by value, ignoring its exponent.
func decEq(s string) interface{} {
	want := d(s)
	return mock.MatchedBy(func(v decimal.Decimal) bool { return v.Equal(want) })
}

func strPtr(s string) *string {
	return &s
}

// expectTx wires Begin/Rollback on a repository mock; commit reports whether Commit is expected.
func expectTx(m *mockTxManager, commit bool) {
	m.On("Begin", mock.Anything).Return(nil, nil)
	m.On("Rollback", mock.Anything, mock.Anything).Return(nil).Maybe()
	if commit {
		m.On("Commit", mock.Anything, mock.Anything).Return(nil)
	}
}
