package handlers

import (
	"log/slog"

	"github.com/SscSPs/remesas_backend/cmd/docs"
	"github.com/SscSPs/remesas_backend/internal/adapters/storage"
	portssvc "github.com/SscSPs/remesas_backend/internal/core/ports/services"
	"github.com/SscSPs/remesas_backend/internal/middleware"
	"github.com/SscSPs/remesas_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Signed proof URLs are opened by browsers without a bearer token
	if services.Proofs != nil && !RegisterProofViewRoute(r, storage.ViewRoute, services.Proofs) {
		slog.Warn("Proof storage cannot serve signed URLs; view route not registered")
	}

	if err := setupAPIV1Routes(r, cfg, services); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	service *portssvc.ServiceContainer,
) error {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	if cfg.RateLimit != "" {
		lim, err := middleware.NewRateLimiter(cfg.RateLimit)
		if err != nil {
			return err
		}
		v1.Use(middleware.RateLimit(lim))
	}

	RegisterTransactionRoutes(v1, service.Transaction, service.PurchaseRate, cfg.EditWindow, cfg.Location)
	RegisterPurchaseRateRoutes(v1, service.PurchaseRate, cfg.Location)
	RegisterCashAccountRoutes(v1, service.CashAccount)
	RegisterPaymentRoutes(v1, service.Payment, cfg.Location)
	RegisterReportingRoutes(v1, service.Debt, cfg.Location)
	RegisterRateRoutes(v1, service.Rates)
	if service.Proofs != nil {
		RegisterProofRoutes(v1, service.Proofs)
	}
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
