package services

import (
	"context"
	"io"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
)

// RateProvider returns the official COP/Bs sale rate.
type RateProvider interface {
	GetCurrentRate(ctx context.Context) (*domain.RateQuote, error)
}

// BeneficiaryLookup returns the live beneficiary record to snapshot from.
type BeneficiaryLookup interface {
	GetBeneficiary(ctx context.Context, beneficiaryID string) (*domain.Beneficiary, error)
}

// ProofStorage persists proof files and hands out opaque paths.
// The core never interprets the content behind a path.
type ProofStorage interface {
	// Store saves the file and returns its opaque path.
	Store(ctx context.Context, file io.Reader, filename string, category domain.ProofCategory) (string, error)

	// Delete removes a stored file. Callers treat failures as non-fatal.
	Delete(ctx context.Context, path string) error

	// ResolveForDisplay returns a temporary URL for path.
	ResolveForDisplay(ctx context.Context, path string) (string, error)
}
