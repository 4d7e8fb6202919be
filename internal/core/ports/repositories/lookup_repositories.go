package repositories

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// RateReader reads the official sale rate maintained by the rates back office.
type RateReader interface {
	// FindCurrentRate returns the most recent official rate.
	FindCurrentRate(ctx context.Context) (*domain.RateQuote, error)
}

// BeneficiaryReader reads beneficiary records maintained by the beneficiary back office.
type BeneficiaryReader interface {
	// FindBeneficiaryByID returns the live beneficiary record.
	FindBeneficiaryByID(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error)
}
