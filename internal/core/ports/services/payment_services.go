package services

import (
	"context"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/dto"
)

// PaymentSvc records and lists Colombia-to-Venezuela payments.
type PaymentSvc interface {
	RecordPayment(ctx context.Context, actor domain.Actor, req dto.RecordPaymentRequest) (*domain.VenezuelaPayment, error)
	ListPayments(ctx context.Context, actor domain.Actor, r domain.DateRange) ([]domain.VenezuelaPayment, error)
}
