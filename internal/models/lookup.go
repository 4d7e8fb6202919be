package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one published official sale rate.
type Rate struct {
	RateID    int64           `db:"rate_id"`
	SaleRate  decimal.Decimal `db:"sale_rate"`
	CreatedAt time.Time       `db:"created_at"`
}

// Beneficiary is a beneficiary row owned by a seller or app client.
type Beneficiary struct {
	BeneficiaryID string `db:"beneficiary_id"`
	OwnerID       string `db:"owner_id"`
	FullName      string `db:"full_name"`
	DocumentID    string `db:"document_id"`
	BankName      string `db:"bank_name"`
	AccountNumber string `db:"account_number"`
	AccountType   string `db:"account_type"`
	Phone         string `db:"phone"`
	IsPagoMovil   bool   `db:"is_pago_movil"`
}
