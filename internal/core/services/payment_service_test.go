package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/SscSPs/remesas_backend/internal/core/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecordPayment(t *testing.T) {
	ctx := context.Background()
	caracas, err := time.LoadLocation("America/Caracas")
	require.NoError(t, err)

	repo := new(MockPaymentRepository)
	repo.On("SavePayment", ctx, mock.MatchedBy(func(p domain.VenezuelaPayment) bool {
		return p.Amount.Equal(d("500")) && p.CreatedBy == adminCO.ID && p.PaymentDate.Location() == caracas
	})).Return(nil).Once()

	svc := services.NewPaymentService(repo, services.WithPaymentLocation(caracas))
	payment, err := svc.RecordPayment(ctx, adminCO, dto.RecordPaymentRequest{Amount: dp("500"), PaymentDate: "2026-03-10", Notes: " abono "})

	require.NoError(t, err)
	assert.Equal(t, "abono", payment.Notes)
	assert.Equal(t, 10, payment.PaymentDate.Day())
	repo.AssertExpectations(t)
}

func TestRecordPayment_Validation(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPaymentService(new(MockPaymentRepository))

	_, err := svc.RecordPayment(ctx, adminVE, dto.RecordPaymentRequest{Amount: dp("1"), PaymentDate: "2026-03-10"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.RecordPayment(ctx, adminCO, dto.RecordPaymentRequest{Amount: dp("-1"), PaymentDate: "2026-03-10"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.RecordPayment(ctx, adminCO, dto.RecordPaymentRequest{Amount: dp("1"), PaymentDate: "10/03/2026"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListPayments_SellersForbidden(t *testing.T) {
	svc := services.NewPaymentService(new(MockPaymentRepository))
	_, err := svc.ListPayments(context.Background(), colombiaSeller, domain.DateRange{})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
