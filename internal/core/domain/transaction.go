package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionStatus is the lifecycle state of a remittance.
type TransactionStatus string

const (
	StatusPending          TransactionStatus = "PENDIENTE"
	StatusPendingVenezuela TransactionStatus = "PENDIENTE_VENEZUELA"
	StatusCompleted        TransactionStatus = "COMPLETADO"
	StatusRejected         TransactionStatus = "RECHAZADO"
	StatusCancelledSeller  TransactionStatus = "CANCELADO_VENDEDOR"
	StatusCancelledAdmin   TransactionStatus = "CANCELADO_ADMINISTRADOR"
)

// DefaultEditWindow is the grace period a creator has to edit or cancel a PENDIENTE transaction.
const DefaultEditWindow = 5 * time.Minute

// allowedTransitions lists the moves permitted from each status, admin override excluded.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:          {StatusPendingVenezuela, StatusCancelledSeller},
	StatusPendingVenezuela: {StatusCompleted, StatusRejected},
	StatusRejected:         {StatusPendingVenezuela},
}

// IsValid reports whether s is a known status.
func (s TransactionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPendingVenezuela, StatusCompleted, StatusRejected, StatusCancelledSeller, StatusCancelledAdmin:
		return true
	}
	return false
}

// IsCancelled reports whether s is one of the cancelled terminal states.
func (s TransactionStatus) IsCancelled() bool {
	return s == StatusCancelledSeller || s == StatusCancelledAdmin
}

// CanTransitionTo reports whether moving from s to next is a legal transition.
// Administrator cancellation is allowed from every state that is not already cancelled.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	if next == StatusCancelledAdmin {
		return !s.IsCancelled()
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// BeneficiarySnapshot is the beneficiary data frozen into a transaction.
// It is copied once at creation (or on an explicit resend update) and never re-derived.
type BeneficiarySnapshot struct {
	FullName      string `json:"fullName"`
	DocumentID    string `json:"documentID"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	AccountType   string `json:"accountType"`
	Phone         string `json:"phone"`
	IsPagoMovil   bool   `json:"isPagoMovil"`
}

// Transaction is a remittance request from Colombia (COP) to Venezuela (Bs).
type Transaction struct {
	ID            int64   `json:"id"`
	CreatedBy     string  `json:"createdBy"` // seller or app client
	ClientID      *string `json:"clientID,omitempty"`
	BeneficiaryID *string `json:"beneficiaryID,omitempty"`

	Beneficiary BeneficiarySnapshot `json:"beneficiary"`

	AmountCOP             decimal.Decimal  `json:"amountCOP"`
	AmountBs              decimal.Decimal  `json:"amountBs"`
	SaleRate              decimal.Decimal  `json:"saleRate"`
	PurchaseRate          *decimal.Decimal `json:"purchaseRate,omitempty"`
	IsPurchaseRateSet     bool             `json:"isPurchaseRateSet"`
	HasCustomRate         bool             `json:"hasCustomRate"`
	TransactionCommission decimal.Decimal  `json:"transactionCommission"` // percentage frozen at creation

	Status             TransactionStatus `json:"status"`
	LastEditedAt       *time.Time        `json:"lastEditedAt,omitempty"`
	RejectionReason    *string           `json:"rejectionReason,omitempty"`
	VoucherProofPath   *string           `json:"voucherProofPath,omitempty"`
	RejectionProofPath *string           `json:"rejectionProofPath,omitempty"`
	CompletedAt        *time.Time        `json:"completedAt,omitempty"`

	IsPaidByVendor         bool       `json:"isPaidByVendor"`
	PaidByVendorAt         *time.Time `json:"paidByVendorAt,omitempty"`
	VendorPaymentMethod    *string    `json:"vendorPaymentMethod,omitempty"`
	VendorPaymentProofPath *string    `json:"vendorPaymentProofPath,omitempty"`

	IsCommissionPaidToVendor bool       `json:"isCommissionPaidToVendor"`
	CommissionPaidAt         *time.Time `json:"commissionPaidAt,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// EditWindowStart is the instant the current edit window began.
func (t *Transaction) EditWindowStart() time.Time {
	if t.LastEditedAt != nil {
		return *t.LastEditedAt
	}
	return t.CreatedAt
}

// EditWindowOpen reports whether fewer than window has elapsed since the window started.
func (t *Transaction) EditWindowOpen(now time.Time, window time.Duration) bool {
	return now.Sub(t.EditWindowStart()) < window
}

// RemainingEditTime returns how much of the edit window is left, zero once lapsed.
func (t *Transaction) RemainingEditTime(now time.Time, window time.Duration) time.Duration {
	left := window - now.Sub(t.EditWindowStart())
	if left < 0 {
		return 0
	}
	return left
}

// CheckEditable returns nil when the creator may still edit or cancel the transaction.
func (t *Transaction) CheckEditable(now time.Time, window time.Duration) error {
	if t.Status != StatusPending {
		return fmt.Errorf("%w: transaction %d is %s; only %s transactions can be modified", apperrors.ErrInvalidTransition, t.ID, t.Status, StatusPending)
	}
	if !t.EditWindowOpen(now, window) {
		return fmt.Errorf("%w: edit window expired for transaction %d", apperrors.ErrInvalidTransition, t.ID)
	}
	return nil
}

// CheckTransition returns nil when moving to next is legal from the current status.
func (t *Transaction) CheckTransition(next TransactionStatus) error {
	if !t.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: transaction %d cannot move from %s to %s", apperrors.ErrInvalidTransition, t.ID, t.Status, next)
	}
	return nil
}

// Materialize applies the lazy auto-advance: a PENDIENTE transaction whose
// edit window has lapsed becomes PENDIENTE_VENEZUELA. It reports whether t changed.
func Materialize(t *Transaction, now time.Time, window time.Duration) bool {
	if t.Status != StatusPending || t.EditWindowOpen(now, window) {
		return false
	}
	t.Status = StatusPendingVenezuela
	t.UpdatedAt = now
	return true
}

// IsOwnedBy reports whether the actor created the transaction.
func (t *Transaction) IsOwnedBy(actor Actor) bool {
	return t.CreatedBy == actor.ID
}

// HasPurchaseRate reports whether a purchase rate (provisional or final) is attached.
func (t *Transaction) HasPurchaseRate() bool {
	return t.PurchaseRate != nil
}

// TransactionHistory is one append-only audit row.
type TransactionHistory struct {
	HistoryID     string            `json:"historyID"`
	TransactionID int64             `json:"transactionID"`
	Status        TransactionStatus `json:"status"`
	Note          string            `json:"note"`
	ChangedBy     string            `json:"changedBy"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// TransactionFilter narrows transaction listings.
type TransactionFilter struct {
	Status    *TransactionStatus
	CreatedBy *string
	Range     DateRange
	Limit     int
	NextToken *string
}
