package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/remesas_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/SscSPs/remesas_backend/internal/utils/daterange"
	"github.com/google/uuid"
)

type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepository
	location    *time.Location
}

// PaymentOption is a functional option for configuring the payment service
type PaymentOption func(*paymentService)

// WithPaymentLocation sets the zone payment dates are interpreted in
func WithPaymentLocation(loc *time.Location) PaymentOption {
	return func(s *paymentService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithPaymentClock overrides the clock used for timestamps
func WithPaymentClock(clock func() time.Time) PaymentOption {
	return func(s *paymentService) {
		s.Clock = clock
	}
}

// NewPaymentService creates a new payment service
func NewPaymentService(repo portsrepo.PaymentRepository, options ...PaymentOption) portssvc.PaymentSvc {
	svc := &paymentService{paymentRepo: repo, location: time.UTC}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

func (s *paymentService) RecordPayment(ctx context.Context, actor domain.Actor, req dto.RecordPaymentRequest) (*domain.VenezuelaPayment, error) {
	if err := s.RequireRole(ctx, actor, "record payments", domain.RoleAdminColombia); err != nil {
		return nil, err
	}
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	}
	paymentDate, err := time.ParseInLocation(daterange.Layout, strings.TrimSpace(req.PaymentDate), s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: paymentDate must be %s", apperrors.ErrValidation, daterange.Layout)
	}

	payment := domain.VenezuelaPayment{
		PaymentID:   uuid.NewString(),
		Amount:      req.Amount.Round(2),
		PaymentDate: paymentDate,
		Notes:       strings.TrimSpace(req.Notes),
		ProofPath:   req.ProofPath,
		CreatedBy:   actor.ID,
		CreatedAt:   s.Now(),
	}
	if err := s.paymentRepo.SavePayment(ctx, payment); err != nil {
		s.LogError(ctx, err, "Failed to save payment", slog.String("amount", payment.Amount.String()))
		return nil, err
	}

	s.LogInfo(ctx, "Payment to Venezuela recorded",
		slog.String("payment_id", payment.PaymentID),
		slog.String("amount", payment.Amount.String()),
		slog.String("payment_date", paymentDate.Format(daterange.Layout)))
	return &payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, actor domain.Actor, r domain.DateRange) ([]domain.VenezuelaPayment, error) {
	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only administrators can list payments", apperrors.ErrForbidden)
	}
	payments, err := s.paymentRepo.ListPayments(ctx, r)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments")
		return nil, err
	}
	if payments == nil {
		payments = []domain.VenezuelaPayment{}
	}
	return payments, nil
}
