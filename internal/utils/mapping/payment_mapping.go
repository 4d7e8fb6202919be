package mapping

import (
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/models"
)

func ToModelVenezuelaPayment(d domain.VenezuelaPayment) models.VenezuelaPayment {
	return models.VenezuelaPayment{
		PaymentID:   d.PaymentID,
		Amount:      d.Amount,
		PaymentDate: d.PaymentDate,
		Notes:       d.Notes,
		ProofPath:   d.ProofPath,
		CreatedBy:   d.CreatedBy,
		CreatedAt:   d.CreatedAt,
	}
}

func ToDomainVenezuelaPayment(m models.VenezuelaPayment) domain.VenezuelaPayment {
	return domain.VenezuelaPayment{
		PaymentID:   m.PaymentID,
		Amount:      m.Amount,
		PaymentDate: m.PaymentDate,
		Notes:       m.Notes,
		ProofPath:   m.ProofPath,
		CreatedBy:   m.CreatedBy,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomainBeneficiary converts a beneficiary row to the lookup result
func ToDomainBeneficiary(m models.Beneficiary) domain.Beneficiary {
	return domain.Beneficiary{
		BeneficiaryID: m.BeneficiaryID,
		OwnerID:       m.OwnerID,
		BeneficiarySnapshot: domain.BeneficiarySnapshot{
			FullName:      m.FullName,
			DocumentID:    m.DocumentID,
			BankName:      m.BankName,
			AccountNumber: m.AccountNumber,
			AccountType:   m.AccountType,
			Phone:         m.Phone,
			IsPagoMovil:   m.IsPagoMovil,
		},
	}
}
