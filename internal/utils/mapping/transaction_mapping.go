package mapping

import (
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	m := models.Transaction{
		ID:            d.ID,
		CreatedBy:     d.CreatedBy,
		ClientID:      d.ClientID,
		BeneficiaryID: d.BeneficiaryID,

		BeneficiaryFullName:      d.Beneficiary.FullName,
		BeneficiaryDocumentID:    d.Beneficiary.DocumentID,
		BeneficiaryBankName:      d.Beneficiary.BankName,
		BeneficiaryAccountNumber: d.Beneficiary.AccountNumber,
		BeneficiaryAccountType:   d.Beneficiary.AccountType,
		BeneficiaryPhone:         d.Beneficiary.Phone,
		BeneficiaryIsPagoMovil:   d.Beneficiary.IsPagoMovil,

		AmountCOP:             d.AmountCOP,
		AmountBs:              d.AmountBs,
		SaleRate:              d.SaleRate,
		IsPurchaseRateSet:     d.IsPurchaseRateSet,
		HasCustomRate:         d.HasCustomRate,
		TransactionCommission: d.TransactionCommission,

		Status:             string(d.Status),
		LastEditedAt:       d.LastEditedAt,
		RejectionReason:    d.RejectionReason,
		VoucherProofPath:   d.VoucherProofPath,
		RejectionProofPath: d.RejectionProofPath,
		CompletedAt:        d.CompletedAt,

		IsPaidByVendor:         d.IsPaidByVendor,
		PaidByVendorAt:         d.PaidByVendorAt,
		VendorPaymentMethod:    d.VendorPaymentMethod,
		VendorPaymentProofPath: d.VendorPaymentProofPath,

		IsCommissionPaidToVendor: d.IsCommissionPaidToVendor,
		CommissionPaidAt:         d.CommissionPaidAt,

		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.PurchaseRate != nil {
		m.PurchaseRate = decimal.NewNullDecimal(*d.PurchaseRate)
	}
	return m
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	d := domain.Transaction{
		ID:            m.ID,
		CreatedBy:     m.CreatedBy,
		ClientID:      m.ClientID,
		BeneficiaryID: m.BeneficiaryID,
		Beneficiary: domain.BeneficiarySnapshot{
			FullName:      m.BeneficiaryFullName,
			DocumentID:    m.BeneficiaryDocumentID,
			BankName:      m.BeneficiaryBankName,
			AccountNumber: m.BeneficiaryAccountNumber,
			AccountType:   m.BeneficiaryAccountType,
			Phone:         m.BeneficiaryPhone,
			IsPagoMovil:   m.BeneficiaryIsPagoMovil,
		},

		AmountCOP:             m.AmountCOP,
		AmountBs:              m.AmountBs,
		SaleRate:              m.SaleRate,
		IsPurchaseRateSet:     m.IsPurchaseRateSet,
		HasCustomRate:         m.HasCustomRate,
		TransactionCommission: m.TransactionCommission,

		Status:             domain.TransactionStatus(m.Status),
		LastEditedAt:       m.LastEditedAt,
		RejectionReason:    m.RejectionReason,
		VoucherProofPath:   m.VoucherProofPath,
		RejectionProofPath: m.RejectionProofPath,
		CompletedAt:        m.CompletedAt,

		IsPaidByVendor:         m.IsPaidByVendor,
		PaidByVendorAt:         m.PaidByVendorAt,
		VendorPaymentMethod:    m.VendorPaymentMethod,
		VendorPaymentProofPath: m.VendorPaymentProofPath,

		IsCommissionPaidToVendor: m.IsCommissionPaidToVendor,
		CommissionPaidAt:         m.CommissionPaidAt,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.PurchaseRate.Valid {
		rate := m.PurchaseRate.Decimal
		d.PurchaseRate = &rate
	}
	return d
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionHistory converts a domain history row to its model
func ToModelTransactionHistory(d domain.TransactionHistory) models.TransactionHistory {
	return models.TransactionHistory{
		HistoryID:     d.HistoryID,
		TransactionID: d.TransactionID,
		Status:        string(d.Status),
		Note:          d.Note,
		ChangedBy:     d.ChangedBy,
		CreatedAt:     d.CreatedAt,
	}
}

// ToDomainTransactionHistory converts a model history row to its domain form
func ToDomainTransactionHistory(m models.TransactionHistory) domain.TransactionHistory {
	return domain.TransactionHistory{
		HistoryID:     m.HistoryID,
		TransactionID: m.TransactionID,
		Status:        domain.TransactionStatus(m.Status),
		Note:          m.Note,
		ChangedBy:     m.ChangedBy,
		CreatedAt:     m.CreatedAt,
	}
}
