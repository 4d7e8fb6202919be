package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateQuote is the official COP/Bs sale rate (amountCOP = amountBs x SaleRate).
type RateQuote struct {
	SaleRate decimal.Decimal `json:"saleRate"`
	AsOf     time.Time       `json:"asOf"`
}

// Beneficiary is the live beneficiary record as returned by the lookup collaborator.
type Beneficiary struct {
	BeneficiaryID string `json:"beneficiaryID"`
	OwnerID       string `json:"ownerID"`
	BeneficiarySnapshot
}

// Snapshot freezes the beneficiary's current data.
func (b Beneficiary) Snapshot() BeneficiarySnapshot {
	return b.BeneficiarySnapshot
}
