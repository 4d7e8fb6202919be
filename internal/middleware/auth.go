package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
)

// ActorClaims are the JWT claims issued by the upstream identity service.
type ActorClaims struct {
	jwt.RegisteredClaims
	Name           string `json:"name"`
	Role           string `json:"role"`
	AdminID        string `json:"admin_id,omitempty"`
	AdminCountry   string `json:"admin_country,omitempty"`
	CommissionRate string `json:"commission_rate,omitempty"`
}

// ToActor converts validated claims to a domain.Actor.
func (c ActorClaims) ToActor() (domain.Actor, error) {
	actor := domain.Actor{
		ID:   c.Subject,
		Name: c.Name,
		Role: domain.Role(c.Role),
	}
	if actor.ID == "" {
		return domain.Actor{}, errors.New("subject missing")
	}
	switch actor.Role {
	case domain.RoleAdminColombia, domain.RoleAdminVenezuela, domain.RoleSeller, domain.RoleClient:
	default:
		return domain.Actor{}, fmt.Errorf("unknown role %q", c.Role)
	}
	if c.AdminID != "" {
		actor.Affiliation = &domain.AdminAffiliation{
			AdminID: c.AdminID,
			Country: domain.Country(strings.ToUpper(c.AdminCountry)),
		}
	}
	if c.CommissionRate != "" {
		rate, err := decimal.NewFromString(c.CommissionRate)
		if err != nil {
			return domain.Actor{}, fmt.Errorf("commission_rate: %w", err)
		}
		actor.CommissionRate = &rate
	}
	return actor, nil
}

// AuthMiddleware creates a Gin middleware handler that validates JWT tokens
// and stores the authenticated actor in the request context.
func AuthMiddleware(jwtSecret, issuer string) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			logger.Warn("Authorization header format invalid")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
		if issuer != "" {
			opts = append(opts, jwt.WithIssuer(issuer))
		}

		claims := &ActorClaims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return []byte(jwtSecret), nil
		}, opts...)
		if err != nil || !token.Valid {
			logger.Warn("Invalid token", "error", err)
			msg := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "Token has expired"
			} else if errors.Is(err, jwt.ErrTokenNotValidYet) {
				msg = "Token not valid yet"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		actor, err := claims.ToActor()
		if err != nil {
			logger.Warn("Invalid token claims", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		enrichedLogger := logger.With(slog.String("user_id", actor.ID), slog.String("role", string(actor.Role)))
		ctx := WithLogger(WithActor(c.Request.Context(), actor), enrichedLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Set(string(actorKey), actor)
		c.Set(string(loggerKey), enrichedLogger)

		c.Next()
	}
}
