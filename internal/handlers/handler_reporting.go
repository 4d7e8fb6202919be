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

// reportingHandler handles HTTP requests for the debt and commission reports
type reportingHandler struct {
	debtService portssvc.DebtSvc
	location    *time.Location
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(ds portssvc.DebtSvc, loc *time.Location) *reportingHandler {
	return &reportingHandler{
		debtService: ds,
		location:    loc,
	}
}

// RegisterReportingRoutes registers routes related to reports
func RegisterReportingRoutes(rg *gin.RouterGroup, debtService portssvc.DebtSvc, loc *time.Location) {
	h := newReportingHandler(debtService, loc)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/commissions", h.getCommissions)
		reportingGroup.POST("/commissions/pay", h.payCommissions)
		reportingGroup.GET("/colombia-debt", h.getColombiaDebt)
		reportingGroup.GET("/venezuela-earnings", h.getVenezuelaEarnings)
	}
}

// parseRange binds from/to and builds the local-day range, answering 400 on failure.
func (h *reportingHandler) parseRange(c *gin.Context) (dto.DateRangeParams, domain.DateRange, bool) {
	var params dto.DateRangeParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return params, domain.DateRange{}, false
	}
	rng, err := daterange.Parse(params.From, params.To, h.location)
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return params, domain.DateRange{}, false
	}
	return params, rng, true
}

// getCommissions godoc
// @Summary Commission summary
// @Description Commissions of the sellers attributed to the calling administrator.
// @Tags reports
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ReportResponse[domain.CommissionSummary]
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 403 {object} map[string]string "Administrators only"
// @Security BearerAuth
// @Router /reports/commissions [get]
func (h *reportingHandler) getCommissions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params, rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	summary, err := h.debtService.CommissionSummary(c.Request.Context(), actor, rng)
	if err != nil {
		respondWithError(c, err, "Failed to generate commission report")
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(params, summary.TransactionCount > 0, summary))
}

// payCommissions godoc
// @Summary Mark a vendor's commissions as paid
// @Tags reports
// @Accept json
// @Produce json
// @Param request body dto.PayCommissionsRequest true "Vendor and range"
// @Success 200 {object} dto.PayCommissionsResponse
// @Failure 403 {object} map[string]string "Vendor not attributed to caller"
// @Security BearerAuth
// @Router /reports/commissions/pay [post]
func (h *reportingHandler) payCommissions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.PayCommissionsRequest
	if !bindJSON(c, &req) {
		return
	}
	rng, err := daterange.Parse(req.From, req.To, h.location)
	if err != nil {
		respondWithError(c, err, "Invalid date range")
		return
	}

	marked, err := h.debtService.PayVendorCommissions(c.Request.Context(), actor, req.VendorID, rng)
	if err != nil {
		respondWithError(c, err, "Failed to mark commissions as paid")
		return
	}
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Vendor commissions marked paid",
		slog.String("vendor_id", req.VendorID), slog.Int64("marked", marked))
	c.JSON(http.StatusOK, dto.PayCommissionsResponse{VendorID: req.VendorID, Marked: marked})
}

// getColombiaDebt godoc
// @Summary Colombia debt summary
// @Description Per-seller profit split and the pending debt towards Venezuela, net of payments.
// @Tags reports
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ReportResponse[domain.DebtSummary]
// @Security BearerAuth
// @Router /reports/colombia-debt [get]
func (h *reportingHandler) getColombiaDebt(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params, rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	summary, err := h.debtService.ColombiaDebtSummary(c.Request.Context(), actor, rng)
	if err != nil {
		respondWithError(c, err, "Failed to generate debt report")
		return
	}
	c.JSON(http.StatusOK, dto.NewReportResponse(params, summary.HasData(), summary))
}

// getVenezuelaEarnings godoc
// @Summary Venezuela earnings summary
// @Tags reports
// @Produce json
// @Param from query string false "From date (YYYY-MM-DD)"
// @Param to query string false "To date (YYYY-MM-DD)"
// @Success 200 {object} dto.ReportResponse[domain.VenezuelaEarnings]
// @Security BearerAuth
// @Router /reports/venezuela-earnings [get]
func (h *reportingHandler) getVenezuelaEarnings(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	params, rng, ok := h.parseRange(c)
	if !ok {
		return
	}

	earnings, err := h.debtService.VenezuelaEarningsSummary(c.Request.Context(), actor, rng)
	if err != nil {
		respondWithError(c, err, "Failed to generate earnings report")
		return
	}
	hasData := len(earnings.Sellers) > 0 || !earnings.TotalReceived.IsZero()
	c.JSON(http.StatusOK, dto.NewReportResponse(params, hasData, earnings))
}
