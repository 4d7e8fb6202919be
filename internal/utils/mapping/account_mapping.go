package mapping

import (
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID: d.AccountID,
		Name:      d.Name,
		Balance:   d.Balance,
		OwnerID:   d.OwnerID,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID: m.AccountID,
		Name:      m.Name,
		Balance:   m.Balance,
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}

// ToModelAccountTransaction converts a domain movement to its model
func ToModelAccountTransaction(d domain.AccountTransaction) models.AccountTransaction {
	return models.AccountTransaction{
		AccountTransactionID: d.AccountTransactionID,
		AccountID:            d.AccountID,
		Type:                 string(d.Type),
		Amount:               d.Amount,
		TransactionID:        d.TransactionID,
		BalanceBefore:        d.BalanceBefore,
		BalanceAfter:         d.BalanceAfter,
		Description:          d.Description,
		CreatedBy:            d.CreatedBy,
		CreatedAt:            d.CreatedAt,
	}
}

// ToDomainAccountTransaction converts a model movement to its domain form
func ToDomainAccountTransaction(m models.AccountTransaction) domain.AccountTransaction {
	return domain.AccountTransaction{
		AccountTransactionID: m.AccountTransactionID,
		AccountID:            m.AccountID,
		Type:                 domain.AccountTransactionType(m.Type),
		Amount:               m.Amount,
		TransactionID:        m.TransactionID,
		BalanceBefore:        m.BalanceBefore,
		BalanceAfter:         m.BalanceAfter,
		Description:          m.Description,
		CreatedBy:            m.CreatedBy,
		CreatedAt:            m.CreatedAt,
	}
}
