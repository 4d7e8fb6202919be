package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the persisted row of a remittance in the transactions table.
type Transaction struct {
	ID            int64   `db:"id"`
	CreatedBy     string  `db:"created_by"`
	ClientID      *string `db:"client_id"`
	BeneficiaryID *string `db:"beneficiary_id"`

	BeneficiaryFullName      string `db:"beneficiary_full_name"`
	BeneficiaryDocumentID    string `db:"beneficiary_document_id"`
	BeneficiaryBankName      string `db:"beneficiary_bank_name"`
	BeneficiaryAccountNumber string `db:"beneficiary_account_number"`
	BeneficiaryAccountType   string `db:"beneficiary_account_type"`
	BeneficiaryPhone         string `db:"beneficiary_phone"`
	BeneficiaryIsPagoMovil   bool   `db:"beneficiary_is_pago_movil"`

	AmountCOP             decimal.Decimal     `db:"amount_cop"`
	AmountBs              decimal.Decimal     `db:"amount_bs"`
	SaleRate              decimal.Decimal     `db:"sale_rate"`
	PurchaseRate          decimal.NullDecimal `db:"purchase_rate"`
	IsPurchaseRateSet     bool                `db:"is_purchase_rate_set"`
	HasCustomRate         bool                `db:"has_custom_rate"`
	TransactionCommission decimal.Decimal     `db:"transaction_commission"`

	Status             string     `db:"status"`
	LastEditedAt       *time.Time `db:"last_edited_at"`
	RejectionReason    *string    `db:"rejection_reason"`
	VoucherProofPath   *string    `db:"voucher_proof_path"`
	RejectionProofPath *string    `db:"rejection_proof_path"`
	CompletedAt        *time.Time `db:"completed_at"`

	IsPaidByVendor         bool       `db:"is_paid_by_vendor"`
	PaidByVendorAt         *time.Time `db:"paid_by_vendor_at"`
	VendorPaymentMethod    *string    `db:"vendor_payment_method"`
	VendorPaymentProofPath *string    `db:"vendor_payment_proof_path"`

	IsCommissionPaidToVendor bool       `db:"is_commission_paid_to_vendor"`
	CommissionPaidAt         *time.Time `db:"commission_paid_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TransactionHistory is one row of the append-only transaction_history table.
type TransactionHistory struct {
	HistoryID     string    `db:"history_id"`
	TransactionID int64     `db:"transaction_id"`
	Status        string    `db:"status"`
	Note          string    `db:"note"`
	ChangedBy     string    `db:"changed_by"`
	CreatedAt     time.Time `db:"created_at"`
}
