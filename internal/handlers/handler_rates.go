package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/SscSPs/remesas_backend/internal/apperrors"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// rateRefresher is implemented by rate providers that cache the official rate.
type rateRefresher interface {
	Invalidate(ctx context.Context) error
}

// RegisterRateRoutes exposes the official sale rate to every authenticated role.
// Cached providers also get an administrator refresh route.
func RegisterRateRoutes(rg *gin.RouterGroup, rates portssvc.RateProvider) {
	rg.GET("/rates/current", func(c *gin.Context) {
		getCurrentRate(c, rates)
	})
	if refresher, ok := rates.(rateRefresher); ok {
		rg.POST("/rates/refresh", func(c *gin.Context) {
			refreshCurrentRate(c, rates, refresher)
		})
	}
}

// getCurrentRate godoc
// @Summary Current official sale rate
// @Tags rates
// @Produce json
// @Success 200 {object} domain.RateQuote
// @Failure 404 {object} map[string]string "No rate published"
// @Security BearerAuth
// @Router /rates/current [get]
func getCurrentRate(c *gin.Context, rates portssvc.RateProvider) {
	quote, err := rates.GetCurrentRate(c.Request.Context())
	if err != nil {
		respondWithError(c, err, "Failed to fetch current rate")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// refreshCurrentRate godoc
// @Summary Drop the cached official rate and reload it
// @Description Call after publishing a new rate so new transactions stop freezing the cached one.
// @Tags rates
// @Produce json
// @Success 200 {object} domain.RateQuote
// @Failure 403 {object} map[string]string "Administrators only"
// @Failure 404 {object} map[string]string "No rate published"
// @Security BearerAuth
// @Router /rates/refresh [post]
func refreshCurrentRate(c *gin.Context, rates portssvc.RateProvider, refresher rateRefresher) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	if !actor.IsAdmin() {
		respondWithError(c, fmt.Errorf("%w: only administrators can refresh the rate", apperrors.ErrForbidden), "Failed to refresh rate")
		return
	}

	ctx := c.Request.Context()
	if err := refresher.Invalidate(ctx); err != nil {
		respondWithError(c, err, "Failed to refresh rate")
		return
	}
	middleware.GetLoggerFromCtx(ctx).Info("Cached rate invalidated", slog.String("admin_id", actor.ID))
	getCurrentRate(c, rates)
}
