package handlers

import (
	"log/slog"
	"net/http"
	"time"

	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/SscSPs/remesas_backend/internal/utils/daterange"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	paymentService portssvc.PaymentSvc
	location       *time.Location
}

// RegisterPaymentRoutes registers routes for Colombia-to-Venezuela payments.
func RegisterPaymentRoutes(rg *gin.RouterGroup, ps portssvc.PaymentSvc, loc *time.Location) {
	h := &paymentHandler{paymentService: ps, location: loc}

	payments := rg.Group("/payments")
	{
		payments.POST("", h.recordPayment)
		payments.GET("", h.listPayments)
	}
}

// recordPayment godoc
// @Summary Record a payment to Venezuela
// @Tags payments
// @Accept json
// @Produce json
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 201 {object} domain.VenezuelaPayment
// @Failure 403 {object} map[string]string "Colombia administrator only"
// @Security BearerAuth
// @Router /payments [post]
func (h *paymentHandler) recordPayment(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}
	payment, err := h.paymentService.RecordPayment(c.Request.Context(), actor, req)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment recorded", slog.String("payment_id", payment.PaymentID))
	c.JSON(http.StatusCreated, payment)
}

// listPayments godoc
// @Summary List payments to Venezuela
// @Tags payments
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ListPaymentsResponse
// @Security BearerAuth
// @Router /payments [get]
func (h *paymentHandler) listPayments(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	rng, err := daterange.Parse(c.Query("from"), c.Query("to"), h.location)
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}
	payments, err := h.paymentService.ListPayments(c.Request.Context(), actor, rng)
	if err != nil {
		respondWithError(c, err, "Failed to list payments")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPaymentsResponse(payments))
}
