package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/SscSPs/remesas_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signClaims(t *testing.T, claims ActorClaims, secret string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newAuthRouter() (*gin.Engine, *domain.Actor) {
	gin.SetMode(gin.TestMode)
	seen := &domain.Actor{}
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, "remesas-backend"))
	r.GET("/whoami", func(c *gin.Context) {
		actor, ok := GetActorFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		*seen = actor
		c.Status(http.StatusOK)
	})
	return r, seen
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	r, seen := newAuthRouter()
	token := signClaims(t, ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "seller-1",
			Issuer:    "remesas-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Name:           "Ana",
		Role:           "VENDEDOR",
		AdminID:        "admin-ve",
		AdminCountry:   "venezuela",
		CommissionRate: "5",
	}, testSecret)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "seller-1", seen.ID)
	assert.Equal(t, domain.RoleSeller, seen.Role)
	require.NotNil(t, seen.Affiliation)
	assert.Equal(t, domain.Venezuela, seen.Affiliation.Country)
	assert.True(t, seen.BelongsToVenezuelaAdmin())
	require.NotNil(t, seen.CommissionRate)
	assert.Equal(t, "5", seen.CommissionRate.String())
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	valid := ActorClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin-1",
			Issuer:    "remesas-backend",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: "ADMIN_COLOMBIA",
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
	badRole := valid
	badRole.Role = "ROOT"
	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"

	tests := []struct {
		name   string
		header func(t *testing.T) string
		want   string
	}{
		{"missing header", func(t *testing.T) string { return "" }, "Authorization header required"},
		{"wrong scheme", func(t *testing.T) string { return "Basic abc" }, "Authorization header format must be Bearer {token}"},
		{"wrong secret", func(t *testing.T) string { return "Bearer " + signClaims(t, valid, "other") }, "Invalid token"},
		{"expired", func(t *testing.T) string { return "Bearer " + signClaims(t, expired, testSecret) }, "Token has expired"},
		{"wrong issuer", func(t *testing.T) string { return "Bearer " + signClaims(t, otherIssuer, testSecret) }, "Invalid token"},
		{"unknown role", func(t *testing.T) string { return "Bearer " + signClaims(t, badRole, testSecret) }, "Invalid token claims"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := newAuthRouter()
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if h := tt.header(t); h != "" {
				req.Header.Set("Authorization", h)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestGetLoggerFromCtx_FallsBackToDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.NotNil(t, GetLoggerFromCtx(req.Context()))
}
