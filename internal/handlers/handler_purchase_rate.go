package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/dto"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/SscSPs/remesas_backend/internal/utils/daterange"
	"github.com/gin-gonic/gin"
)

// purchaseRateHandler handles the set-based reconciliation endpoints.
type purchaseRateHandler struct {
	rateService portssvc.PurchaseRateSvc
	location    *time.Location
}

// RegisterPurchaseRateRoutes registers bulk purchase-rate routes.
func RegisterPurchaseRateRoutes(rg *gin.RouterGroup, prs portssvc.PurchaseRateSvc, loc *time.Location) {
	h := &purchaseRateHandler{rateService: prs, location: loc}

	rates := rg.Group("/purchase-rates")
	{
		rates.GET("/pending", h.listPending)
		rates.POST("/bulk", h.bulkSet)
		rates.POST("/bulk-remove", h.bulkRemove)
	}
}

func (h *purchaseRateHandler) scope(from, to string, ids []int64) (domain.PurchaseRateFilter, error) {
	rng, err := daterange.Parse(from, to, h.location)
	if err != nil {
		return domain.PurchaseRateFilter{}, err
	}
	return domain.PurchaseRateFilter{Range: rng, TransactionIDs: ids}, nil
}

// listPending godoc
// @Summary List transactions awaiting a final purchase rate
// @Tags purchase-rates
// @Produce  json
// @Param   from query string false "From date (YYYY-MM-DD)"
// @Param   to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.PendingPurchaseRatesResponse
// @Security BearerAuth
// @Router /purchase-rates/pending [get]
func (h *purchaseRateHandler) listPending(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}
	rng, err := daterange.Parse(params.From, params.To, h.location)
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}

	txns, err := h.rateService.ListPendingPurchaseRates(c.Request.Context(), actor, rng)
	if err != nil {
		respondWithError(c, err, "Failed to list pending purchase rates")
		return
	}
	c.JSON(http.StatusOK, dto.PendingPurchaseRatesResponse{Count: len(txns), Transactions: txns})
}

// bulkSet godoc
// @Summary Set one purchase rate on many completed transactions
// @Description Applies to completed transactions in scope that have no purchase rate yet.
// @Tags purchase-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.BulkPurchaseRateRequest true "Rate and scope"
// @Success 200 {object} dto.BulkResultResponse
// @Security BearerAuth
// @Router /purchase-rates/bulk [post]
func (h *purchaseRateHandler) bulkSet(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BulkPurchaseRateRequest
	if !bindJSON(c, &req) {
		return
	}
	filter, err := h.scope(req.From, req.To, req.TransactionIDs)
	if err != nil {
		respondWithError(c, err, "Invalid scope")
		return
	}

	ids, err := h.rateService.BulkSetPurchaseRate(c.Request.Context(), actor, filter, *req.PurchaseRate, req.Final)
	if err != nil {
		respondWithError(c, err, "Failed to set purchase rates")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bulk purchase rate applied", slog.Int("affected", len(ids)))
	c.JSON(http.StatusOK, dto.ToBulkResultResponse(ids))
}

// bulkRemove godoc
// @Summary Clear provisional purchase rates
// @Tags purchase-rates
// @Accept  json
// @Produce  json
// @Param   request body dto.BulkRemovePurchaseRateRequest true "Scope"
// @Success 200 {object} dto.BulkResultResponse
// @Security BearerAuth
// @Router /purchase-rates/bulk-remove [post]
func (h *purchaseRateHandler) bulkRemove(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BulkRemovePurchaseRateRequest
	if !bindJSON(c, &req) {
		return
	}
	filter, err := h.scope(req.From, req.To, req.TransactionIDs)
	if err != nil {
		respondWithError(c, err, "Invalid scope")
		return
	}

	ids, err := h.rateService.BulkRemovePurchaseRate(c.Request.Context(), actor, filter)
	if err != nil {
		respondWithError(c, err, "Failed to remove purchase rates")
		return
	}
	c.JSON(http.StatusOK, dto.ToBulkResultResponse(ids))
}
