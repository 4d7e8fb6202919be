package lookup

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
)

// BeneficiaryLookup reads live beneficiary records straight from the beneficiaries table.
type BeneficiaryLookup struct {
	repo portsrepo.BeneficiaryReader
}

func NewBeneficiaryLookup(repo portsrepo.BeneficiaryReader) *BeneficiaryLookup {
	return &BeneficiaryLookup{repo: repo}
}

var _ portssvc.BeneficiaryLookup = (*BeneficiaryLookup)(nil)

func (l *BeneficiaryLookup) GetBeneficiary(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error) {
	return l.repo.FindBeneficiaryByID(ctx, beneficiaryID)
}
